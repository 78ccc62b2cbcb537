package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"conta/internal/core"
)

type Config struct {
	// Display
	Currency string

	// Withdrawal policy
	WithdrawalLimit  core.Money
	DailyWithdrawals int

	// Storage
	DataBackend  string
	DataFile     string
	SQLiteDBPath string

	// Export
	ExportDir string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Logging
	LogLevel string
}

// Backends accepted in DATA_BACKEND.
var validBackends = []string{"file", "sqlite", "memory"}

func Load() *Config {
	return &Config{
		Currency: getEnv("CURRENCY", "R$"),

		WithdrawalLimit:  getEnvMoney("WITHDRAWAL_LIMIT", core.Cents(50000)),
		DailyWithdrawals: getEnvInt("DAILY_WITHDRAWALS", 3),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		DataFile:     getEnv("DATA_FILE", "conta.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/conta.db"),

		ExportDir: getEnv("EXPORT_DIR", "."),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "conta"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions"),

		LogLevel: getEnv("LOG_LEVEL", "warn"),
	}
}

// Policy returns the withdrawal limits as the ledger expects them.
func (c *Config) Policy() core.Policy {
	return core.Policy{
		MaxWithdrawal:       c.WithdrawalLimit,
		MaxDailyWithdrawals: c.DailyWithdrawals,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.Currency) == "" {
		errors = append(errors, "currency marker cannot be empty")
	}

	if !c.WithdrawalLimit.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid withdrawal limit %s: must be greater than zero", c.WithdrawalLimit))
	}
	if c.DailyWithdrawals < 1 {
		errors = append(errors, fmt.Sprintf("invalid daily withdrawals %d: must be at least 1", c.DailyWithdrawals))
	}

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataFile == "" {
			errors = append(errors, "data file path cannot be empty when using file backend")
		} else if info, err := os.Stat(c.DataFile); err == nil && info.IsDir() {
			errors = append(errors, fmt.Sprintf("data file '%s' is a directory", c.DataFile))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvMoney(key string, defaultValue core.Money) core.Money {
	if value := os.Getenv(key); value != "" {
		if m, err := core.ParseMoney(value); err == nil {
			return m
		}
	}
	return defaultValue
}
