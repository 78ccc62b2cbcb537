package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Deposit    Kind = "DEPOSIT"
	Withdrawal Kind = "WITHDRAWAL"
)

// Layouts used wherever a transaction time or a calendar date is rendered.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

type (
	// Kind tells deposits from withdrawals. Direction is never carried by
	// the sign of the amount.
	Kind string

	// Transaction is a completed deposit or withdrawal. Amount is always
	// positive and Timestamp has second precision in local time.
	Transaction struct {
		Timestamp time.Time
		Kind      Kind
		Amount    Money
	}

	// Snapshot is the persisted form of a Ledger.
	Snapshot struct {
		Balance      Money
		Transactions []Transaction
	}
)

var (
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrNonPositiveAmount          = errors.New("amount must be greater than zero")
	ErrAmountTooLarge             = errors.New("amount too large for the balance")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrExceedsPerTransactionLimit = errors.New("amount exceeds per-withdrawal limit")
	ErrDailyLimitReached          = errors.New("daily withdrawal limit reached")
	ErrInvalidDateRange           = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidKind                = errors.New("invalid transaction kind")
	ErrPersistenceCorrupt         = errors.New("persisted state is corrupt")
	ErrBalanceMismatch            = errors.New("persisted balance does not match transaction log")
)

// legacyKinds maps labels written by earlier versions of the data file.
var legacyKinds = map[string]Kind{
	"DEPÓSITO": Deposit,
	"DEPOSITO": Deposit,
	"SAQUE":    Withdrawal,
}

// ParseKind accepts the canonical kind names and the legacy labels.
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch k := Kind(s); k {
	case Deposit, Withdrawal:
		return k, nil
	}
	if k, ok := legacyKinds[s]; ok {
		return k, nil
	}
	return "", ErrInvalidKind
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	return k == Deposit || k == Withdrawal
}

// Sign is +1 for deposits and -1 for withdrawals.
func (k Kind) Sign() int64 {
	if k == Withdrawal {
		return -1
	}
	return 1
}

// Day returns the calendar date of the transaction as YYYY-MM-DD.
func (t Transaction) Day() string {
	return t.Timestamp.Format(DateLayout)
}

// Validate checks the invariants of a single transaction.
func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !t.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if t.Timestamp.IsZero() {
		return errors.New("transaction timestamp cannot be zero")
	}
	return nil
}

// NetOf sums deposits minus withdrawals. It fails with ErrAmountTooLarge if
// the running total leaves the int64 range.
func NetOf(txs []Transaction) (Money, error) {
	var net Money
	for _, t := range txs {
		var ok bool
		if net, ok = net.CheckedAdd(Cents(t.Kind.Sign() * t.Amount.Cents)); !ok {
			return Zero, ErrAmountTooLarge
		}
	}
	return net, nil
}
