package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// LedgerConfig tunes the transaction ledger engine.
type LedgerConfig struct {
	// BalanceEngine selects how running balances are computed: "scan"
	// walks rows in memory, "sql" uses the window-function view.
	BalanceEngine      string `mapstructure:"balance_engine"`
	SplitToleranceCent int64  `mapstructure:"split_tolerance_cent"`
	DefaultCurrency    string `mapstructure:"default_currency"`
}

type AppSubConfig struct {
	PageSize    int `mapstructure:"page_size"`
	MaxPageSize int `mapstructure:"max_page_size"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "./data/budgeteer.db")
	v.SetDefault("jwt.issuer", "budgeteer")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("ledger.balance_engine", "sql")
	v.SetDefault("ledger.split_tolerance_cent", 1)
	v.SetDefault("ledger.default_currency", "USD")
	v.SetDefault("app.page_size", 20)
	v.SetDefault("app.max_page_size", 100)
}

// Read parses the configuration file at path without touching the global.
// A missing file is not an error when path is empty; defaults and
// environment overrides still apply.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. BGT_SERVER_PORT=9000
	v.SetEnvPrefix("BGT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the ledger cannot run with.
func (c *Config) Validate() error {
	switch c.Ledger.BalanceEngine {
	case "scan", "sql":
	default:
		return fmt.Errorf("config: ledger.balance_engine must be scan or sql, got %q", c.Ledger.BalanceEngine)
	}
	if c.Ledger.SplitToleranceCent < 0 {
		return fmt.Errorf("config: ledger.split_tolerance_cent must not be negative")
	}
	if c.App.PageSize <= 0 || c.App.MaxPageSize < c.App.PageSize {
		return fmt.Errorf("config: app.page_size must be positive and not exceed app.max_page_size")
	}
	return nil
}

// Load loads configuration from given file path (e.g. "config.yaml") once
// and keeps it as the process-wide configuration.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = Read(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
