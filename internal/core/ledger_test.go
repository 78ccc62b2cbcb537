package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 2, 9, 30, 15, 123456789, time.Local)}
}

func newTestLedger(t *testing.T, clock *fakeClock) *Ledger {
	t.Helper()
	return NewLedger(DefaultPolicy(), WithClock(clock.Now))
}

func TestNewLedger(t *testing.T) {
	l := NewLedger(DefaultPolicy())

	assert.Equal(t, Zero, l.Balance())
	assert.Empty(t, l.Transactions())
	assert.Equal(t, Cents(50000), l.Policy().MaxWithdrawal)
	assert.Equal(t, 3, l.Policy().MaxDailyWithdrawals)
}

func TestLedger_Deposit(t *testing.T) {
	t.Run("SuccessfulDeposit", func(t *testing.T) {
		clock := newClock()
		l := newTestLedger(t, clock)

		balance, err := l.Deposit(MustParseMoney("1000.00"))

		require.NoError(t, err)
		assert.Equal(t, MustParseMoney("1000.00"), balance)
		assert.Equal(t, balance, l.Balance())

		txs := l.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, Deposit, txs[0].Kind)
		assert.Equal(t, MustParseMoney("1000.00"), txs[0].Amount)
		assert.True(t, txs[0].Timestamp.Equal(clock.now.Truncate(time.Second)))
		assert.Zero(t, txs[0].Timestamp.Nanosecond(), "timestamps have second precision")
	})

	t.Run("IncreasesBalanceByExactAmount", func(t *testing.T) {
		l := newTestLedger(t, newClock())
		amounts := []string{"0.01", "10.10", "0.99", "123.45"}
		expected := Zero
		for _, raw := range amounts {
			amount := MustParseMoney(raw)
			before := l.Balance()
			n := len(l.Transactions())

			balance, err := l.Deposit(amount)

			require.NoError(t, err)
			expected = expected.Add(amount)
			assert.Equal(t, before.Add(amount), balance)
			assert.Len(t, l.Transactions(), n+1)
		}
		assert.Equal(t, expected, l.Balance())
	})

	t.Run("RejectsOverflowingBalance", func(t *testing.T) {
		l := newTestLedger(t, newClock())
		_, err := l.Deposit(MustParseMoney("92233720368547758.07"))
		require.NoError(t, err)

		balance, err := l.Deposit(MustParseMoney("0.01"))

		assert.ErrorIs(t, err, ErrAmountTooLarge)
		assert.Equal(t, Cents(math.MaxInt64), balance)
		assert.Len(t, l.Transactions(), 1)

		restored, err := Restore(l.Snapshot(), DefaultPolicy())
		require.NoError(t, err)
		assert.Equal(t, l.Balance(), restored.Balance())
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		l := newTestLedger(t, newClock())
		for _, amount := range []Money{Zero, Cents(-1), MustParseMoney("-50")} {
			_, err := l.Deposit(amount)
			assert.ErrorIs(t, err, ErrNonPositiveAmount)
		}
		assert.Equal(t, Zero, l.Balance())
		assert.Empty(t, l.Transactions())
	})
}

func TestLedger_Withdraw(t *testing.T) {
	t.Run("SuccessfulWithdrawal", func(t *testing.T) {
		l := newTestLedger(t, newClock())
		_, err := l.Deposit(MustParseMoney("100.00"))
		require.NoError(t, err)

		balance, err := l.Withdraw(MustParseMoney("30.00"))

		require.NoError(t, err)
		assert.Equal(t, MustParseMoney("70.00"), balance)
		txs := l.Transactions()
		require.Len(t, txs, 2)
		assert.Equal(t, Withdrawal, txs[1].Kind)
		assert.Equal(t, MustParseMoney("30.00"), txs[1].Amount)
	})

	t.Run("WithdrawEntireBalance", func(t *testing.T) {
		l := newTestLedger(t, newClock())
		_, err := l.Deposit(MustParseMoney("42.42"))
		require.NoError(t, err)

		balance, err := l.Withdraw(MustParseMoney("42.42"))

		require.NoError(t, err)
		assert.Equal(t, Zero, balance)
	})

	tests := []struct {
		name    string
		deposit string
		amount  string
		wantErr error
	}{
		{"NonPositive", "100.00", "0", ErrNonPositiveAmount},
		{"Negative", "100.00", "-5", ErrNonPositiveAmount},
		{"InsufficientFunds", "100.00", "100.01", ErrInsufficientFunds},
		{"ExceedsLimit", "1000.00", "500.01", ErrExceedsPerTransactionLimit},
		{"InsufficientBeforeLimit", "100.00", "600.00", ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, newClock())
			_, err := l.Deposit(MustParseMoney(tt.deposit))
			require.NoError(t, err)
			before := l.Snapshot()

			balance, err := l.Withdraw(MustParseMoney(tt.amount))

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before.Balance, balance)
			assert.Equal(t, before, l.Snapshot(), "failed withdrawal must not change state")
		})
	}
}

func TestLedger_DailyLimit(t *testing.T) {
	clock := newClock()
	l := newTestLedger(t, clock)
	_, err := l.Deposit(MustParseMoney("2000.00"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Hour)
		_, err := l.Withdraw(MustParseMoney("500.00"))
		require.NoError(t, err, "withdrawal %d", i+1)
	}
	assert.Equal(t, MustParseMoney("500.00"), l.Balance())
	assert.Equal(t, 3, l.CountWithdrawalsOn(clock.now))

	_, err = l.Withdraw(MustParseMoney("0.01"))
	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Equal(t, MustParseMoney("500.00"), l.Balance())
	assert.Len(t, l.Transactions(), 4)

	// A new calendar day resets the count.
	clock.now = time.Date(2024, 1, 3, 0, 0, 1, 0, time.Local)
	assert.Equal(t, 0, l.CountWithdrawalsOn(clock.now))
	balance, err := l.Withdraw(MustParseMoney("0.01"))
	require.NoError(t, err)
	assert.Equal(t, MustParseMoney("499.99"), balance)
}

func TestLedger_DailyLimitCustomPolicy(t *testing.T) {
	clock := newClock()
	l := NewLedger(Policy{MaxWithdrawal: MustParseMoney("50"), MaxDailyWithdrawals: 1}, WithClock(clock.Now))
	_, err := l.Deposit(MustParseMoney("200"))
	require.NoError(t, err)

	_, err = l.Withdraw(MustParseMoney("50.01"))
	assert.ErrorIs(t, err, ErrExceedsPerTransactionLimit)

	_, err = l.Withdraw(MustParseMoney("50"))
	require.NoError(t, err)

	_, err = l.Withdraw(MustParseMoney("1"))
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestLedger_CountWithdrawalsOn(t *testing.T) {
	l, err := Restore(Snapshot{
		Balance: MustParseMoney("70.00"),
		Transactions: []Transaction{
			{Timestamp: time.Date(2024, 1, 1, 23, 59, 59, 0, time.Local), Kind: Deposit, Amount: MustParseMoney("100")},
			{Timestamp: time.Date(2024, 1, 1, 23, 59, 59, 0, time.Local), Kind: Withdrawal, Amount: MustParseMoney("10")},
			{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local), Kind: Withdrawal, Amount: MustParseMoney("10")},
			{Timestamp: time.Date(2024, 1, 2, 18, 0, 0, 0, time.Local), Kind: Withdrawal, Amount: MustParseMoney("10")},
		},
	}, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, 1, l.CountWithdrawalsOn(time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)))
	assert.Equal(t, 2, l.CountWithdrawalsOn(time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local)))
	assert.Equal(t, 0, l.CountWithdrawalsOn(time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local)))
}

func TestLedger_Reset(t *testing.T) {
	l := newTestLedger(t, newClock())
	_, err := l.Deposit(MustParseMoney("10"))
	require.NoError(t, err)

	l.Reset()
	assert.Equal(t, Zero, l.Balance())
	assert.Empty(t, l.Transactions())

	l.Reset()
	assert.Equal(t, Zero, l.Balance())
	assert.Empty(t, l.Transactions())
}

func TestLedger_TransactionsReturnsCopy(t *testing.T) {
	l := newTestLedger(t, newClock())
	_, err := l.Deposit(MustParseMoney("10"))
	require.NoError(t, err)

	txs := l.Transactions()
	txs[0].Amount = MustParseMoney("9999")

	assert.Equal(t, MustParseMoney("10"), l.Transactions()[0].Amount)
}

func TestRestore(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	t.Run("Consistent", func(t *testing.T) {
		l, err := Restore(Snapshot{
			Balance: MustParseMoney("10.10"),
			Transactions: []Transaction{
				{Timestamp: ts, Kind: Deposit, Amount: MustParseMoney("20.20")},
				{Timestamp: ts, Kind: Withdrawal, Amount: MustParseMoney("10.10")},
			},
		}, DefaultPolicy())

		require.NoError(t, err)
		assert.Equal(t, MustParseMoney("10.10"), l.Balance())
		assert.Len(t, l.Transactions(), 2)
	})

	t.Run("Empty", func(t *testing.T) {
		l, err := Restore(Snapshot{}, DefaultPolicy())

		require.NoError(t, err)
		assert.Equal(t, Zero, l.Balance())
	})

	t.Run("BalanceMismatchRebuildsFromLog", func(t *testing.T) {
		l, err := Restore(Snapshot{
			Balance:      MustParseMoney("99.00"),
			Transactions: []Transaction{{Timestamp: ts, Kind: Deposit, Amount: MustParseMoney("20.00")}},
		}, DefaultPolicy())

		assert.ErrorIs(t, err, ErrBalanceMismatch)
		require.NotNil(t, l)
		assert.Equal(t, MustParseMoney("20.00"), l.Balance())
	})

	corrupt := map[string][]Transaction{
		"NegativeAmount": {{Timestamp: ts, Kind: Deposit, Amount: Cents(-100)}},
		"UnknownKind":    {{Timestamp: ts, Kind: Kind("TRANSFER"), Amount: Cents(100)}},
		"ZeroTimestamp":  {{Kind: Deposit, Amount: Cents(100)}},
		"NegativeNet":    {{Timestamp: ts, Kind: Withdrawal, Amount: Cents(100)}},
		"OverflowingNet": {
			{Timestamp: ts, Kind: Deposit, Amount: Cents(math.MaxInt64)},
			{Timestamp: ts, Kind: Deposit, Amount: Cents(math.MaxInt64)},
			{Timestamp: ts, Kind: Deposit, Amount: Cents(2)},
		},
	}
	for name, txs := range corrupt {
		t.Run(name, func(t *testing.T) {
			l, err := Restore(Snapshot{Transactions: txs}, DefaultPolicy())

			assert.ErrorIs(t, err, ErrPersistenceCorrupt)
			assert.Nil(t, l)
		})
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"DEPOSIT":    Deposit,
		"withdrawal": Withdrawal,
		"DEPÓSITO":   Deposit,
		"SAQUE":      Withdrawal,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("REFUND")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
