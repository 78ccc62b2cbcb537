// Package services provides the ledger orchestration: loading, saving and
// event publishing around the core engine.
package services

import (
	"context"
	"errors"
	"fmt"

	"conta/internal/amqp"
	"conta/internal/core"
	"conta/internal/log"
	"conta/internal/storage"
)

// EventPublisher receives ledger events. *amqp.Client implements it.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error
	PublishLedgerReset(ctx context.Context, msg *amqp.LedgerResetMessage) error
	Close() error
}

// LedgerService orchestrates the ledger, its store and the optional event
// publisher. It is the only caller of the Ledger's mutating methods.
type LedgerService struct {
	ledger    *core.Ledger
	store     storage.Store
	publisher EventPublisher
	logger    *log.Logger
}

type options struct {
	publisher  EventPublisher
	logger     *log.Logger
	ledgerOpts []core.Option
}

type Option func(*options)

// WithPublisher enables event publishing. A nil publisher disables it.
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithLogger sets the diagnostic sink for swallowed failures.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLedgerOptions forwards options to the underlying Ledger.
func WithLedgerOptions(opts ...core.Option) Option {
	return func(o *options) { o.ledgerOpts = append(o.ledgerOpts, opts...) }
}

// Open loads the ledger from store. A missing or corrupt snapshot never
// fails: the service starts from an empty ledger and logs why.
func Open(ctx context.Context, store storage.Store, policy core.Policy, opts ...Option) *LedgerService {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Discard()
	}

	s := &LedgerService{
		store:     store,
		publisher: o.publisher,
		logger:    o.logger.WithComponent(log.ComponentLedger),
	}
	s.ledger = s.load(ctx, policy, o.ledgerOpts)
	return s
}

func (s *LedgerService) load(ctx context.Context, policy core.Policy, ledgerOpts []core.Option) *core.Ledger {
	snap, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.DebugContext(ctx, "No saved ledger, starting empty", log.FieldOperation, log.OpLoad)
		return core.NewLedger(policy, ledgerOpts...)
	case err != nil:
		s.logger.WarnContext(ctx, "Saved ledger unreadable, starting empty",
			log.NewFields().
				WithOperation(log.OpLoad).
				WithError(err, log.ErrorTypePersistence).
				ToSlice()...)
		return core.NewLedger(policy, ledgerOpts...)
	}

	ledger, err := core.Restore(snap, policy, ledgerOpts...)
	switch {
	case errors.Is(err, core.ErrBalanceMismatch):
		s.logger.WarnContext(ctx, "Saved balance rebuilt from transaction log",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err.Error())
	case err != nil:
		s.logger.WarnContext(ctx, "Saved ledger inconsistent, starting empty",
			log.FieldOperation, log.OpLoad,
			log.FieldError, err.Error())
		return core.NewLedger(policy, ledgerOpts...)
	}

	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldBalanceCents, ledger.Balance().Cents,
		log.FieldTransactions, len(snap.Transactions))
	return ledger
}

func (s *LedgerService) Balance() core.Money {
	return s.ledger.Balance()
}

func (s *LedgerService) Policy() core.Policy {
	return s.ledger.Policy()
}

func (s *LedgerService) Transactions() []core.Transaction {
	return s.ledger.Transactions()
}

// Statement builds a statement over r.
func (s *LedgerService) Statement(r core.DateRange) core.Statement {
	return core.BuildStatement(s.ledger, r)
}

// Deposit credits amount and returns the new balance.
func (s *LedgerService) Deposit(ctx context.Context, amount core.Money) (core.Money, error) {
	balance, err := s.ledger.Deposit(amount)
	if err != nil {
		s.logRejected(ctx, log.OpDeposit, core.Deposit, amount, err)
		return balance, err
	}
	s.recorded(ctx, log.OpDeposit, balance)
	return balance, nil
}

// Withdraw debits amount and returns the new balance.
func (s *LedgerService) Withdraw(ctx context.Context, amount core.Money) (core.Money, error) {
	balance, err := s.ledger.Withdraw(amount)
	if err != nil {
		s.logRejected(ctx, log.OpWithdraw, core.Withdrawal, amount, err)
		return balance, err
	}
	s.recorded(ctx, log.OpWithdraw, balance)
	return balance, nil
}

// Reset clears the ledger and removes the stored snapshot. A failed removal
// is logged and ignored.
func (s *LedgerService) Reset(ctx context.Context) {
	s.ledger.Reset()

	if err := s.store.Remove(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove saved ledger",
			log.FieldOperation, log.OpReset,
			log.FieldError, err.Error())
	}

	s.logger.InfoContext(ctx, "Ledger reset", log.FieldOperation, log.OpReset)

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerReset(ctx, amqp.NewLedgerResetMessage()); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish reset event",
			log.FieldOperation, log.OpPublish,
			log.FieldError, err.Error())
	}
}

// Autosave persists the current state. Failures are reported to the logger
// and returned wrapped in storage.ErrPersistenceWrite; callers may ignore
// them and carry on with the in-memory state.
func (s *LedgerService) Autosave(ctx context.Context) error {
	err := s.save(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Autosave failed",
			log.NewFields().
				WithOperation(log.OpSave).
				WithError(err, log.ErrorTypePersistence).
				ToSlice()...)
	}
	return err
}

// Save persists the current state and surfaces any failure.
func (s *LedgerService) Save(ctx context.Context) error {
	err := s.save(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Final save failed",
			log.NewFields().
				WithOperation(log.OpSave).
				WithError(err, log.ErrorTypePersistence).
				ToSlice()...)
	}
	return err
}

func (s *LedgerService) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.ledger.Snapshot()); err != nil {
		if errors.Is(err, storage.ErrPersistenceWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", storage.ErrPersistenceWrite, err)
	}
	return nil
}

// Close closes the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

func (s *LedgerService) recorded(ctx context.Context, op string, balance core.Money) {
	txs := s.ledger.Transactions()
	tx := txs[len(txs)-1]

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().
			WithOperation(op).
			WithTransaction(tx.Kind.String(), tx.Amount.Cents).
			WithBalance(balance.Cents).
			ToSlice()...)

	if s.publisher == nil {
		return
	}
	msg := amqp.NewTransactionRecordedMessage(tx, balance)
	if err := s.publisher.PublishTransactionRecorded(ctx, msg); err != nil {
		// the ledger is already updated; the event is best effort
		s.logger.WarnContext(ctx, "Failed to publish transaction event",
			log.FieldOperation, log.OpPublish,
			log.FieldEventID, msg.ID.String(),
			log.FieldError, err.Error())
	}
}

func (s *LedgerService) logRejected(ctx context.Context, op string, kind core.Kind, amount core.Money, err error) {
	s.logger.DebugContext(ctx, "Transaction rejected",
		log.NewFields().
			WithOperation(op).
			WithTransaction(kind.String(), amount.Cents).
			WithError(err, log.ErrorTypeValidation).
			ToSlice()...)
}
