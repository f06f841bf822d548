package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Archive failure policies for discharge (see workflow.Engine.Discharge).
const (
	ArchivePolicyContinue = "continue"
	ArchivePolicyAbort    = "abort"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	SessionSigningKey    string   `mapstructure:"SESSION_SIGNING_KEY"`
	SessionTTLMinutes    int      `mapstructure:"SESSION_TTL_MINUTES"`
	SnapshotPath         string   `mapstructure:"SNAPSHOT_PATH"`
	ArchiveFailurePolicy string   `mapstructure:"ARCHIVE_FAILURE_POLICY"`
	SeedSampleData       bool     `mapstructure:"SEED_SAMPLE_DATA"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SESSION_TTL_MINUTES", 480)
	v.SetDefault("SNAPSHOT_PATH", "data/carehome.snapshot.json")
	v.SetDefault("ARCHIVE_FAILURE_POLICY", ArchivePolicyContinue)
	v.SetDefault("SEED_SAMPLE_DATA", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SESSION_SIGNING_KEY")
	v.BindEnv("SESSION_TTL_MINUTES")
	v.BindEnv("SNAPSHOT_PATH")
	v.BindEnv("ARCHIVE_FAILURE_POLICY")
	v.BindEnv("SEED_SAMPLE_DATA")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a session signing key must be set so login tokens cannot be forged, and the
// archive failure policy must be one of the two named choices.
func (c *Config) Validate() error {
	if !c.IsDev() && c.SessionSigningKey == "" {
		return fmt.Errorf("SESSION_SIGNING_KEY is required when ENV=%q", c.Env)
	}
	switch c.ArchiveFailurePolicy {
	case ArchivePolicyContinue, ArchivePolicyAbort:
	default:
		return fmt.Errorf("ARCHIVE_FAILURE_POLICY must be %q or %q, got %q",
			ArchivePolicyContinue, ArchivePolicyAbort, c.ArchiveFailurePolicy)
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes)
	}
	return nil
}
