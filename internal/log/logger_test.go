package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"verbose": slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})

	logger.Info("Deposit recorded", FieldAmountCents, int64(1010))

	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "amount_cents=1010")
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Output: &buf})

	child := base.WithComponent(ComponentStorage)
	child.Warn("Autosave failed")

	assert.Equal(t, ComponentStorage, child.Component())
	assert.Equal(t, ComponentApp, base.Component())
	assert.Contains(t, buf.String(), "component=storage")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentLedger).
		WithOperation(OpWithdraw).
		WithTransaction("WITHDRAWAL", 500).
		WithBalance(1500).
		WithError(errors.New("boom"), ErrorTypeValidation)

	assert.Equal(t, ComponentLedger, f[FieldComponent])
	assert.Equal(t, OpWithdraw, f[FieldOperation])
	assert.Equal(t, "WITHDRAWAL", f[FieldKind])
	assert.Equal(t, int64(500), f[FieldAmountCents])
	assert.Equal(t, int64(1500), f[FieldBalanceCents])
	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, ErrorTypeValidation, f[FieldErrorType])
	assert.Len(t, f.ToSlice(), 14)
}
