package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Game    GameConfig
	Log     LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AuthConfig controls account creation.
type AuthConfig struct {
	AdminEmails     []string
	StartingBalance string
}

// StorageConfig selects the repository implementation: "mongo" or "memory".
type StorageConfig struct {
	Driver string
}

// CatalogConfig points at the YAML box catalog used for seeding.
type CatalogConfig struct {
	SeedFile string
}

// GameConfig holds the initial platform settings. Admins can change them at
// runtime; these values only seed the settings document.
type GameConfig struct {
	BettingEnabled   bool
	MaxBet           string
	DepositPresets   []string
	AllowCustomTopup bool
	MaxTopup         string
	RandomSeed       uint64
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Load loads configuration from a .env file, config.yaml and GROWDICE_*
// environment variables, in increasing order of precedence.
func Load(paths ...string) (*Config, error) {
	LoadDotEnv()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("GROWDICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, env and defaults cover it
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("Server.ReadTimeout", 15*time.Second)
	v.SetDefault("Server.WriteTimeout", 0) // the balance stream is long-lived
	v.SetDefault("Server.ShutdownTimeout", 5*time.Second)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "growdice")
	v.SetDefault("MongoDB.ConnectTimeout", 10*time.Second)
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Auth.AdminEmails", []string{})
	v.SetDefault("Auth.StartingBalance", "125.50")
	v.SetDefault("Storage.Driver", DriverMongo)
	v.SetDefault("Catalog.SeedFile", "config/boxes.yaml")
	v.SetDefault("Game.BettingEnabled", true)
	v.SetDefault("Game.MaxBet", "100.00")
	v.SetDefault("Game.DepositPresets", []string{"10.00", "25.00", "50.00"})
	v.SetDefault("Game.AllowCustomTopup", true)
	v.SetDefault("Game.MaxTopup", "500.00")
	v.SetDefault("Game.RandomSeed", 0)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "text")

	// AutomaticEnv only sees keys viper already knows; the secret has no default.
	_ = v.BindEnv("JWT.Secret", "GROWDICE_JWT_SECRET")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT.Secret is required (GROWDICE_JWT_SECRET)")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("config: JWT.ExpiresIn must be positive, got %d", c.JWT.ExpiresIn)
	}
	switch c.Storage.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown Storage.Driver %q", c.Storage.Driver)
	}
	if _, err := c.StartingBalance(); err != nil {
		return err
	}
	if _, err := c.MaxBet(); err != nil {
		return err
	}
	if _, err := c.MaxTopup(); err != nil {
		return err
	}
	if _, err := c.DepositPresets(); err != nil {
		return err
	}
	return nil
}

// StartingBalance is the balance credited to new accounts.
func (c *Config) StartingBalance() (decimal.Decimal, error) {
	return parseMoney("Auth.StartingBalance", c.Auth.StartingBalance)
}

// MaxBet is the initial bet ceiling.
func (c *Config) MaxBet() (decimal.Decimal, error) {
	return parseMoney("Game.MaxBet", c.Game.MaxBet)
}

// MaxTopup is the initial ceiling for custom top-ups.
func (c *Config) MaxTopup() (decimal.Decimal, error) {
	return parseMoney("Game.MaxTopup", c.Game.MaxTopup)
}

// DepositPresets are the initial fixed top-up amounts.
func (c *Config) DepositPresets() ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(c.Game.DepositPresets))
	for _, s := range c.Game.DepositPresets {
		d, err := parseMoney("Game.DepositPresets", s)
		if err != nil {
			return nil, err
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("config: Game.DepositPresets: %s is not positive", s)
		}
		out = append(out, d)
	}
	return out, nil
}

// IsAdminEmail reports whether email is configured as an administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Auth.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func parseMoney(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s: %w", key, err)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("config: %s: %s is not a cent amount", key, s)
	}
	return d, nil
}
