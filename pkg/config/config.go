package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Records RecordsConfig
	OTEL    OTELConfig
	Log     LogConfig
	Vault   VaultConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// GeminiConfig holds generative AI provider configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RecordsConfig holds health record ingestion configuration
type RecordsConfig struct {
	Path             string
	PatientID        string
	DefaultPatientID string
	MaxUploadBytes   int64
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// VaultConfig locates an optional Vault KV secret holding Gemini credentials
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	Overwrite bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// DefaultEnvFile is read when present; environment variables always win.
const DefaultEnvFile = ".env"

// Load loads configuration from the environment and an optional .env file
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom loads configuration using envFile as the optional dotenv source
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
			Model:   v.GetString("GEMINI_MODEL"),
			Timeout: v.GetDuration("GEMINI_TIMEOUT"),
		},
		Records: RecordsConfig{
			Path:             v.GetString("RECORD_PATH"),
			PatientID:        v.GetString("RECORD_PATIENT_ID"),
			DefaultPatientID: v.GetString("DEFAULT_PATIENT_ID"),
			MaxUploadBytes:   v.GetInt64("RECORD_MAX_UPLOAD_BYTES"),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Vault: VaultConfig{
			Enabled:   v.GetBool("VAULT_ENABLED"),
			Addr:      v.GetString("VAULT_ADDR"),
			Token:     v.GetString("VAULT_TOKEN"),
			Namespace: v.GetString("VAULT_NAMESPACE"),
			Mount:     v.GetString("VAULT_MOUNT"),
			Path:      v.GetString("VAULT_PATH"),
			KVVersion: v.GetInt("VAULT_KV_VERSION"),
			Timeout:   v.GetDuration("VAULT_TIMEOUT"),
			Overwrite: v.GetBool("VAULT_OVERWRITE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with. A missing API key is
// not an error: inference reports it per request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Gemini.Timeout < 0 {
		return errors.New("GEMINI_TIMEOUT must not be negative")
	}
	if c.Records.DefaultPatientID == "" {
		return errors.New("DEFAULT_PATIENT_ID must not be empty")
	}
	return nil
}

// ApplySecrets copies recognised secret values into the Gemini settings.
// Existing values are kept unless overwrite is set. It returns the keys applied.
func (c *Config) ApplySecrets(values map[string]string, overwrite bool) []string {
	targets := []struct {
		key   string
		field *string
	}{
		{"GEMINI_API_KEY", &c.Gemini.APIKey},
		{"GEMINI_BASE_URL", &c.Gemini.BaseURL},
		{"GEMINI_MODEL", &c.Gemini.Model},
	}

	var applied []string
	for _, target := range targets {
		value, ok := values[target.key]
		if !ok || value == "" {
			continue
		}
		if *target.field != "" && !overwrite {
			continue
		}
		*target.field = value
		applied = append(applied, target.key)
	}
	return applied
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the server runs in development mode
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5001)
	v.SetDefault("ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025")
	v.SetDefault("GEMINI_TIMEOUT", 30*time.Second)

	v.SetDefault("RECORD_PATH", "sample-data.txt.pdf")
	v.SetDefault("RECORD_PATIENT_ID", "test_patient")
	v.SetDefault("DEFAULT_PATIENT_ID", "test_patient")
	v.SetDefault("RECORD_MAX_UPLOAD_BYTES", 20<<20)

	v.SetDefault("OTEL_SERVICE_NAME", "ayu-chain-health-assistant")
	v.SetDefault("OTEL_SERVICE_VERSION", "2.1.0")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("VAULT_ENABLED", false)
	v.SetDefault("VAULT_MOUNT", "secret")
	v.SetDefault("VAULT_KV_VERSION", 2)
	v.SetDefault("VAULT_TIMEOUT", 5*time.Second)
	v.SetDefault("VAULT_OVERWRITE", false)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
