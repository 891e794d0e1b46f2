package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Program  ProgramConfig  `mapstructure:"program"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// EmailConfig configures the SES notification adapter. When Enabled is
// false the server runs with a no-op notifier, which is what you want
// locally and in tests.
type EmailConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
	To              string `mapstructure:"to"`
}

// ProgramConfig describes the single-subject workout program.
type ProgramConfig struct {
	SubjectID   string `mapstructure:"subject_id"`
	SubjectName string `mapstructure:"subject_name"`
	// StartDate is a calendar date in YYYY-MM-DD form; day numbering on
	// the dashboard counts from it.
	StartDate string `mapstructure:"start_date"`
	TotalDays int    `mapstructure:"total_days"`
}

// StartTime parses StartDate. The date is interpreted as midnight UTC.
func (p ProgramConfig) StartTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid program.start_date %q: %w", p.StartDate, err)
	}
	return t, nil
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set the path to look for the config file in
	viper.AddConfigPath(path)
	// Set the name of the config file (without extension)
	viper.SetConfigName("config")
	// Set the type of the config file
	viper.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	viper.AutomaticEnv()
	// Use replacer for nested keys e.g., server.address -> SERVER_ADDRESS,
	// email.access_key_id -> EMAIL_ACCESS_KEY_ID
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Set default values ---
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "workout_journey")
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.region", "eu-central-1")
	viper.SetDefault("program.subject_id", "user-mia")
	viper.SetDefault("program.subject_name", "Mia")
	viper.SetDefault("program.start_date", "2025-01-01")
	viper.SetDefault("program.total_days", 31)
	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	// --- Read Config File ---
	err = viper.ReadInConfig()
	// Config file is optional; env vars and defaults may be enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// --- Unmarshal Config ---
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Fail fast on a malformed start date rather than at first request.
	if _, err = config.Program.StartTime(); err != nil {
		return
	}

	return config, nil
}
