package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port   string `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"wallet.db"`

	SolanaRPCURL   string        `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	LedgerTimeout  time.Duration `envconfig:"LEDGER_TIMEOUT" default:"10s"`
	FaucetLamports uint64        `envconfig:"FAUCET_LAMPORTS" default:"1000000000"`
	HistoryLimit   int           `envconfig:"HISTORY_LIMIT" default:"50"`

	PayCooldown time.Duration `envconfig:"PAY_COOLDOWN" default:"0s"`
	ScryptN     int           `envconfig:"SCRYPT_N" default:"32768"`

	PriceFeedEnabled bool   `envconfig:"PRICE_FEED_ENABLED" default:"false"`
	PriceFeedURL     string `envconfig:"PRICE_FEED_URL" default:"https://api.coingecko.com/api/v3"`
	PriceCurrency    string `envconfig:"PRICE_CURRENCY" default:"usd"`

	SendRatePerMinute    int `envconfig:"SEND_RATE_PER_MINUTE" default:"5"`
	BalanceRatePerMinute int `envconfig:"BALANCE_RATE_PER_MINUTE" default:"10"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot check by itself.
func (c *Config) Validate() error {
	if c.ScryptN <= 1 || c.ScryptN&(c.ScryptN-1) != 0 {
		return fmt.Errorf("SCRYPT_N must be a power of two greater than 1, got %d", c.ScryptN)
	}
	if c.LedgerTimeout <= 0 {
		return errors.New("LEDGER_TIMEOUT must be positive")
	}
	if c.PayCooldown < 0 {
		return errors.New("PAY_COOLDOWN must not be negative")
	}
	if c.HistoryLimit <= 0 || c.HistoryLimit > 1000 {
		return fmt.Errorf("HISTORY_LIMIT must be between 1 and 1000, got %d", c.HistoryLimit)
	}
	if c.SendRatePerMinute < 0 || c.BalanceRatePerMinute < 0 {
		return errors.New("rate limits must not be negative")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// PromptForPassword prompts for a password in the terminal without echoing it.
// The caller must zero the returned slice after use.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the command interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	passwordBytes := make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return passwordBytes, nil
}
