package core

import (
	"fmt"
	"time"
)

// Policy holds the withdrawal limits enforced by the Ledger.
type Policy struct {
	MaxWithdrawal       Money // largest amount a single withdrawal may take
	MaxDailyWithdrawals int   // withdrawals allowed per calendar day
}

// DefaultPolicy returns the stock limits: 500.00 per withdrawal, 3 per day.
func DefaultPolicy() Policy {
	return Policy{
		MaxWithdrawal:       Cents(50000),
		MaxDailyWithdrawals: 3,
	}
}

// Ledger is the account aggregate: a balance and the transaction log that
// produced it. It is the only place where either is mutated, and it always
// mutates both together.
type Ledger struct {
	policy       Policy
	now          func() time.Time
	balance      Money
	transactions []Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now as the source of transaction timestamps and of
// "today" for the daily limit.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger returns an empty ledger enforcing policy.
func NewLedger(policy Policy, opts ...Option) *Ledger {
	l := &Ledger{
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore rebuilds a ledger from a persisted snapshot.
//
// The transaction log is authoritative. If the stored balance disagrees with
// the log, the ledger is rebuilt from the log and returned together with
// ErrBalanceMismatch. Any invalid transaction, or a log whose net is
// negative, fails with ErrPersistenceCorrupt and a nil ledger.
func Restore(s Snapshot, policy Policy, opts ...Option) (*Ledger, error) {
	for i, t := range s.Transactions {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrPersistenceCorrupt, i, err)
		}
	}
	net, err := NetOf(s.Transactions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}
	if net.LessThan(Zero) {
		return nil, fmt.Errorf("%w: transactions net to %s", ErrPersistenceCorrupt, net)
	}

	l := NewLedger(policy, opts...)
	l.balance = net
	l.transactions = append([]Transaction(nil), s.Transactions...)

	if net != s.Balance {
		return l, fmt.Errorf("%w: stored %s, log %s", ErrBalanceMismatch, s.Balance, net)
	}
	return l, nil
}

func (l *Ledger) Balance() Money {
	return l.balance
}

func (l *Ledger) Policy() Policy {
	return l.policy
}

// Transactions returns a copy of the log in chronological order.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.transactions...)
}

// Snapshot captures the current state for persistence.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Balance:      l.balance,
		Transactions: l.Transactions(),
	}
}

// Deposit credits amount and returns the new balance. A deposit the balance
// cannot hold fails with ErrAmountTooLarge.
func (l *Ledger) Deposit(amount Money) (Money, error) {
	if !amount.IsPositive() {
		return l.balance, ErrNonPositiveAmount
	}
	if _, ok := l.balance.CheckedAdd(amount); !ok {
		return l.balance, ErrAmountTooLarge
	}
	l.record(Deposit, amount, l.now())
	return l.balance, nil
}

// Withdraw debits amount and returns the new balance.
//
// Checks run in a fixed order so the reported error is deterministic when
// several apply: non-positive amount, insufficient funds, per-withdrawal
// limit, daily count limit.
func (l *Ledger) Withdraw(amount Money) (Money, error) {
	if !amount.IsPositive() {
		return l.balance, ErrNonPositiveAmount
	}
	if amount.GreaterThan(l.balance) {
		return l.balance, ErrInsufficientFunds
	}
	if amount.GreaterThan(l.policy.MaxWithdrawal) {
		return l.balance, ErrExceedsPerTransactionLimit
	}
	now := l.now()
	if l.CountWithdrawalsOn(now) >= l.policy.MaxDailyWithdrawals {
		return l.balance, ErrDailyLimitReached
	}
	l.record(Withdrawal, amount, now)
	return l.balance, nil
}

// CountWithdrawalsOn counts withdrawals whose calendar date matches day.
// Time of day is ignored.
func (l *Ledger) CountWithdrawalsOn(day time.Time) int {
	key := day.Format(DateLayout)
	n := 0
	for _, t := range l.transactions {
		if t.Kind == Withdrawal && t.Day() == key {
			n++
		}
	}
	return n
}

// Reset clears balance and log together. Calling it on an empty ledger is a
// no-op.
func (l *Ledger) Reset() {
	l.balance = Zero
	l.transactions = nil
}

// record builds the entry first and assigns balance and log last so no
// partial update is ever observable.
func (l *Ledger) record(kind Kind, amount Money, at time.Time) {
	tx := Transaction{
		Timestamp: at.Truncate(time.Second),
		Kind:      kind,
		Amount:    amount,
	}
	balance := l.balance.Add(Cents(kind.Sign() * amount.Cents))
	l.transactions = append(l.transactions, tx)
	l.balance = balance
}
