package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"conta/internal/core"
	"conta/internal/export"
	"conta/internal/log"
	"conta/internal/services"
)

// maxLineBytes bounds a single line of input. Longer lines are discarded and
// reported as invalid.
const maxLineBytes = 4096

var errInputTooLong = errors.New("input line too long")

const menu = `
[d] Deposit
[w] Withdraw
[e] Statement
[f] Statement by period
[x] Export statement (CSV)
[r] Reset data
[q] Quit
=> `

// Options configures the presentation layer.
type Options struct {
	Currency  string
	ExportDir string
	// Now stamps export file names; defaults to time.Now.
	Now func() time.Time
	// Logger receives failures that are also shown to the user.
	Logger *log.Logger
}

// App runs the interactive command loop on top of a LedgerService.
type App struct {
	svc    *services.LedgerService
	in     *bufio.Reader
	out    io.Writer
	opts   Options
	logger *log.Logger
}

func NewApp(svc *services.LedgerService, in io.Reader, out io.Writer, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &App{
		svc:    svc,
		in:     bufio.NewReader(in),
		out:    out,
		opts:   opts,
		logger: opts.Logger.WithComponent(log.ComponentCLI),
	}
}

// Run reads commands until quit or end of input. It saves after every
// command and returns the error of the final save, if any.
func (a *App) Run(ctx context.Context) error {
	policy := a.svc.Policy()
	fmt.Fprintf(a.out, "Welcome! Current balance: %s\n", a.money(a.svc.Balance()))
	fmt.Fprintf(a.out, "Limits: withdrawals up to %s | %d withdrawals/day.\n",
		a.money(policy.MaxWithdrawal), policy.MaxDailyWithdrawals)

	for {
		fmt.Fprint(a.out, menu)
		line, err := a.readLine()
		if errors.Is(err, errInputTooLong) {
			fmt.Fprintln(a.out, a.describe(err))
			continue
		}
		if err != nil {
			fmt.Fprintln(a.out)
			return a.quit(ctx)
		}

		switch strings.ToLower(line) {
		case "d":
			a.deposit(ctx)
		case "w":
			a.withdraw(ctx)
		case "e":
			a.statement(core.DateRange{})
		case "f":
			a.statementByPeriod()
		case "x":
			a.exportCSV()
		case "r":
			a.reset(ctx)
		case "q":
			return a.quit(ctx)
		default:
			fmt.Fprintln(a.out, "Invalid operation.")
		}

		// failures are reported by the service and do not end the session
		_ = a.svc.Autosave(ctx)
	}
}

func (a *App) quit(ctx context.Context) error {
	if err := a.svc.Save(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not save data: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Goodbye! Data saved.")
	return nil
}

func (a *App) deposit(ctx context.Context) {
	amount, ok := a.readAmount("Deposit amount: ")
	if !ok {
		return
	}
	balance, err := a.svc.Deposit(ctx, amount)
	if err != nil {
		fmt.Fprintln(a.out, a.describe(err))
		return
	}
	fmt.Fprintf(a.out, "Deposit made: %s | Balance: %s\n", a.money(amount), a.money(balance))
}

func (a *App) withdraw(ctx context.Context) {
	amount, ok := a.readAmount("Withdrawal amount: ")
	if !ok {
		return
	}
	balance, err := a.svc.Withdraw(ctx, amount)
	if err != nil {
		fmt.Fprintln(a.out, a.describe(err))
		return
	}
	fmt.Fprintf(a.out, "Withdrawal made: %s | Balance: %s\n", a.money(amount), a.money(balance))
}

func (a *App) statement(r core.DateRange) {
	writeStatement(a.out, a.svc.Statement(r), a.opts.Currency)
}

func (a *App) statementByPeriod() {
	from, ok := a.prompt("Start date (YYYY-MM-DD) or Enter: ")
	if !ok {
		return
	}
	to, ok := a.prompt("End date   (YYYY-MM-DD) or Enter: ")
	if !ok {
		return
	}

	r, err := core.ParseDateRange(from, to)
	if err != nil {
		fmt.Fprintln(a.out, a.describe(err))
		return
	}
	a.statement(r)
}

func (a *App) exportCSV() {
	name, ok := a.prompt("File name (Enter for default): ")
	if !ok {
		return
	}

	path, err := export.ToFile(a.opts.ExportDir, name, a.svc.Transactions(), a.opts.Now())
	if err != nil {
		a.logger.Warn("Statement export failed",
			log.NewFields().
				WithOperation(log.OpExport).
				WithError(err, log.ErrorTypePersistence).
				ToSlice()...)
		fmt.Fprintf(a.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Statement exported to '%s'.\n", path)
}

func (a *App) reset(ctx context.Context) {
	answer, ok := a.prompt("Are you sure you want to clear balance and history? (type 'YES'): ")
	if !ok || strings.ToUpper(answer) != "YES" {
		fmt.Fprintln(a.out, "Operation cancelled.")
		return
	}
	a.svc.Reset(ctx)
	fmt.Fprintln(a.out, "Account and history reset.")
}

// readAmount prompts for an amount and rejects unparseable or non-positive
// input before the ledger sees it.
func (a *App) readAmount(label string) (core.Money, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return core.Zero, false
	}
	amount, err := core.ParseMoney(raw)
	if err != nil {
		fmt.Fprintln(a.out, a.describe(err))
		return core.Zero, false
	}
	if !amount.IsPositive() {
		fmt.Fprintln(a.out, a.describe(core.ErrNonPositiveAmount))
		return core.Zero, false
	}
	return amount, true
}

// prompt prints label and reads the answer. It reports false on end of input
// and on an overlong line, which it announces.
func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	line, err := a.readLine()
	if err != nil {
		if errors.Is(err, errInputTooLong) {
			fmt.Fprintln(a.out, a.describe(err))
		}
		return "", false
	}
	return line, true
}

// readLine returns the next trimmed line. A line over maxLineBytes is
// consumed whole and reported as errInputTooLong; io.EOF ends the input.
func (a *App) readLine() (string, error) {
	var (
		b       strings.Builder
		tooLong bool
		read    bool
	)
	for {
		chunk, isPrefix, err := a.in.ReadLine()
		if err != nil {
			if read {
				break
			}
			return "", err
		}
		read = true
		if !tooLong && b.Len()+len(chunk) > maxLineBytes {
			tooLong = true
			b.Reset()
		}
		if !tooLong {
			b.Write(chunk)
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errInputTooLong
	}
	return strings.TrimSpace(b.String()), nil
}

// describe turns an engine error into the message shown to the user.
func (a *App) describe(err error) string {
	policy := a.svc.Policy()
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, core.ErrNonPositiveAmount):
		return "Amount must be greater than zero."
	case errors.Is(err, core.ErrAmountTooLarge):
		return "Operation failed! Amount too large for the balance."
	case errors.Is(err, errInputTooLong):
		return fmt.Sprintf("Input too long (over %d characters).", maxLineBytes)
	case errors.Is(err, core.ErrInsufficientFunds):
		return "Operation failed! Insufficient funds."
	case errors.Is(err, core.ErrExceedsPerTransactionLimit):
		return fmt.Sprintf("Operation failed! Amount exceeds the per-withdrawal limit (%s).", a.money(policy.MaxWithdrawal))
	case errors.Is(err, core.ErrDailyLimitReached):
		return fmt.Sprintf("Operation failed! Daily limit of %d withdrawals reached.", policy.MaxDailyWithdrawals)
	case errors.Is(err, core.ErrInvalidDateRange):
		return "Invalid date. Use the YYYY-MM-DD format."
	default:
		return fmt.Sprintf("Operation failed! %v", err)
	}
}

func (a *App) money(m core.Money) string {
	return m.Format(a.opts.Currency)
}
