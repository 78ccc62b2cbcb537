// Package export writes statements to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"conta/internal/core"
)

// Header is the first row of every export.
var Header = []string{"momento", "tipo", "valor"}

// WriteCSV writes the header and one row per transaction.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.Timestamp.Format(core.TimestampLayout),
			t.Kind.String(),
			t.Amount.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DefaultFilename names an export after the moment it was taken.
func DefaultFilename(now time.Time) string {
	return "extrato_" + now.Format("20060102_150405") + ".csv"
}

// ToFile writes txs to dir/name, or to a timestamped file when name is
// empty, and returns the path written.
func ToFile(dir, name string, txs []core.Transaction, now time.Time) (string, error) {
	if name == "" {
		name = DefaultFilename(now)
	}
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, txs); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
