package cli

import (
	"fmt"
	"io"

	"conta/internal/core"
)

func writeStatement(w io.Writer, st core.Statement, currency string) {
	fmt.Fprintln(w, "\n================ STATEMENT ================")

	if !st.Range.IsOpen() {
		from, to := "start", "today"
		if !st.Range.From.IsZero() {
			from = st.Range.From.Format(core.DateLayout)
		}
		if !st.Range.To.IsZero() {
			to = st.Range.To.Format(core.DateLayout)
		}
		fmt.Fprintf(w, "Period: %s to %s\n", from, to)
	}

	if len(st.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions in this period.")
	} else {
		for _, t := range st.Transactions {
			fmt.Fprintln(w, formatTransaction(t, currency))
		}
		fmt.Fprintf(w, "\nDeposits: %s | Withdrawals: %s\n",
			st.TotalDeposits.Format(currency), st.TotalWithdrawals.Format(currency))
	}

	fmt.Fprintf(w, "\nCurrent balance: %s\n", st.Balance.Format(currency))
	fmt.Fprintln(w, "===========================================")
}

func formatTransaction(t core.Transaction, currency string) string {
	sign := "+"
	if t.Kind == core.Withdrawal {
		sign = "-"
	}
	return fmt.Sprintf("%s  %-10s %s%s",
		t.Timestamp.Format(core.TimestampLayout), t.Kind, sign, t.Amount.Format(currency))
}
