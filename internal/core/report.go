package core

import (
	"strings"
	"time"
)

// DateRange is an inclusive range of calendar dates. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Statement is a filtered view of the ledger.
type Statement struct {
	Range            DateRange
	Transactions     []Transaction
	TotalDeposits    Money
	TotalWithdrawals Money
	Balance          Money
}

// ParseDateRange parses optional YYYY-MM-DD bounds. Empty input leaves the
// bound open. A From after To is accepted and simply matches nothing.
func ParseDateRange(from, to string) (DateRange, error) {
	var (
		r   DateRange
		err error
	)
	if r.From, err = parseDay(from); err != nil {
		return DateRange{}, err
	}
	if r.To, err = parseDay(to); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateRange
	}
	return d, nil
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether the calendar date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := t.Format(DateLayout)
	if !r.From.IsZero() && day < r.From.Format(DateLayout) {
		return false
	}
	if !r.To.IsZero() && day > r.To.Format(DateLayout) {
		return false
	}
	return true
}

// FilterByDateRange keeps the transactions whose date is inside r, in their
// original order.
func FilterByDateRange(txs []Transaction, r DateRange) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	return out
}

// BuildStatement filters the ledger's log and totals each kind.
func BuildStatement(l *Ledger, r DateRange) Statement {
	st := Statement{
		Range:        r,
		Transactions: FilterByDateRange(l.transactions, r),
		Balance:      l.Balance(),
	}
	for _, t := range st.Transactions {
		switch t.Kind {
		case Deposit:
			st.TotalDeposits = st.TotalDeposits.Add(t.Amount)
		case Withdrawal:
			st.TotalWithdrawals = st.TotalWithdrawals.Add(t.Amount)
		}
	}
	return st
}
