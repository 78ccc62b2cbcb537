package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeDayLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Restore(Snapshot{
		Balance: MustParseMoney("250.00"),
		Transactions: []Transaction{
			{Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local), Kind: Deposit, Amount: MustParseMoney("300.00")},
			{Timestamp: time.Date(2024, 1, 2, 23, 59, 59, 0, time.Local), Kind: Withdrawal, Amount: MustParseMoney("100.00")},
			{Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local), Kind: Deposit, Amount: MustParseMoney("50.00")},
		},
	}, DefaultPolicy())
	require.NoError(t, err)
	return l
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantErr  bool
		wantOpen bool
	}{
		{name: "both empty", wantOpen: true},
		{name: "from only", from: "2024-01-02"},
		{name: "to only", to: "2024-01-02"},
		{name: "both", from: "2024-01-01", to: "2024-12-31"},
		{name: "padded", from: " 2024-01-01 "},
		{name: "bad format", from: "01/02/2024", wantErr: true},
		{name: "bad day", to: "2024-02-30", wantErr: true},
		{name: "short", from: "2024-1-2", wantErr: true},
		{name: "garbage", to: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOpen, r.IsOpen())
		})
	}
}

func TestFilterByDateRange(t *testing.T) {
	txs := threeDayLedger(t).Transactions()

	tests := []struct {
		name     string
		from, to string
		want     []int
	}{
		{"open", "", "", []int{0, 1, 2}},
		{"single day inclusive", "2024-01-02", "2024-01-02", []int{1}},
		{"from only", "2024-01-02", "", []int{1, 2}},
		{"to only", "", "2024-01-02", []int{0, 1}},
		{"outside", "2025-01-01", "", []int{}},
		{"inverted", "2024-01-03", "2024-01-01", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			require.NoError(t, err)

			got := FilterByDateRange(txs, r)

			require.Len(t, got, len(tt.want))
			for i, idx := range tt.want {
				assert.Equal(t, txs[idx], got[i])
			}
		})
	}
}

func TestBuildStatement(t *testing.T) {
	l := threeDayLedger(t)

	t.Run("full", func(t *testing.T) {
		st := BuildStatement(l, DateRange{})

		assert.Len(t, st.Transactions, 3)
		assert.Equal(t, MustParseMoney("350.00"), st.TotalDeposits)
		assert.Equal(t, MustParseMoney("100.00"), st.TotalWithdrawals)
		assert.Equal(t, MustParseMoney("250.00"), st.Balance)
	})

	t.Run("ranged keeps current balance", func(t *testing.T) {
		r, err := ParseDateRange("2024-01-03", "")
		require.NoError(t, err)

		st := BuildStatement(l, r)

		assert.Len(t, st.Transactions, 1)
		assert.Equal(t, MustParseMoney("50.00"), st.TotalDeposits)
		assert.Equal(t, Zero, st.TotalWithdrawals)
		assert.Equal(t, MustParseMoney("250.00"), st.Balance)
		assert.Equal(t, r, st.Range)
	})
}
