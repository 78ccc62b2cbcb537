package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"conta/internal/core"
)

// snapshotDocument is the on-disk layout. Amounts are decimal strings so the
// round trip never goes through a binary float.
type snapshotDocument struct {
	Balance      string                `json:"balance"`
	Transactions []transactionDocument `json:"transactions"`

	// Field names written by earlier versions of the data file.
	LegacyBalance      string                `json:"saldo,omitempty"`
	LegacyTransactions []transactionDocument `json:"transacoes,omitempty"`
}

type transactionDocument struct {
	Moment string `json:"momento"`
	Kind   string `json:"tipo"`
	Amount string `json:"valor"`
}

// Encode renders a snapshot as an indented JSON document.
//
// Timestamps are written as local wall-clock time without a UTC offset, so a
// transaction made during the repeated hour of a daylight-saving fall-back
// decodes to the earlier of the two instants.
func Encode(s core.Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		Balance:      s.Balance.String(),
		Transactions: make([]transactionDocument, 0, len(s.Transactions)),
	}
	for _, t := range s.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDocument{
			Moment: t.Timestamp.Local().Format(core.TimestampLayout),
			Kind:   t.Kind.String(),
			Amount: t.Amount.String(),
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a document produced by Encode. Any malformed field fails
// with an error wrapping core.ErrPersistenceCorrupt.
func Decode(data []byte) (core.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Snapshot{}, fmt.Errorf("%w: empty document", core.ErrPersistenceCorrupt)
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", core.ErrPersistenceCorrupt, err)
	}

	balanceText, txDocs := doc.Balance, doc.Transactions
	if balanceText == "" && doc.LegacyBalance != "" {
		balanceText = doc.LegacyBalance
	}
	if len(txDocs) == 0 && len(doc.LegacyTransactions) > 0 {
		txDocs = doc.LegacyTransactions
	}
	if balanceText == "" {
		balanceText = "0"
	}

	balance, err := core.ParseMoney(balanceText)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: balance %q", core.ErrPersistenceCorrupt, balanceText)
	}

	s := core.Snapshot{
		Balance:      balance,
		Transactions: make([]core.Transaction, 0, len(txDocs)),
	}
	for i, td := range txDocs {
		t, err := decodeTransaction(td)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: transaction %d: %v", core.ErrPersistenceCorrupt, i, err)
		}
		s.Transactions = append(s.Transactions, t)
	}
	return s, nil
}

func decodeTransaction(td transactionDocument) (core.Transaction, error) {
	ts, err := time.ParseInLocation(core.TimestampLayout, td.Moment, time.Local)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("momento %q: %w", td.Moment, err)
	}
	kind, err := core.ParseKind(td.Kind)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("tipo %q: %w", td.Kind, err)
	}
	amount, err := core.ParseMoney(td.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("valor %q: %w", td.Amount, err)
	}
	t := core.Transaction{Timestamp: ts, Kind: kind, Amount: amount}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
