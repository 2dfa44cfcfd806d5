// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration shared by the policy service and the
// telemetry service. Not every field applies to every binary; each service
// reads only what it needs. The CLI agent does not load Config; it reads
// AGENT_API_TOKEN from the environment itself.
type Config struct {
	// Server settings.
	PolicyPort    int
	TelemetryPort int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration

	// Database settings.
	PolicyDBPath    string
	TelemetryDBPath string

	// Auth settings.
	APIToken      string
	AgentAPIToken string

	// Signing settings.
	SigningSecretPath string

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel            string
	MaxRequestBodyBytes int64
	ShutdownHTTPTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if any environment variable contains an unparseable value.
// Missing variables use sensible defaults. The parsed config is then passed
// through Validate, so well-formed but invalid values (e.g. a port of 0) are
// rejected too.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		PolicyDBPath:      envStr("POLICY_DB_PATH", "data/policy.db"),
		TelemetryDBPath:   envStr("TELEMETRY_DB_PATH", "data/telemetry.db"),
		APIToken:          envStr("API_TOKEN", ""),
		AgentAPIToken:     envStr("AGENT_API_TOKEN", ""),
		SigningSecretPath: envStr("SIGNING_SECRET_PATH", ""),
		OTELEndpoint:      envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:       envStr("OTEL_SERVICE_NAME", "sentrypass"),
		LogLevel:          envStr("LOG_LEVEL", "info"),
	}

	cfg.PolicyPort, errs = collectInt(errs, "POLICY_PORT", 8082)
	cfg.TelemetryPort, errs = collectInt(errs, "TELEMETRY_PORT", 8081)

	var maxReqBody int
	maxReqBody, errs = collectInt(errs, "MAX_REQUEST_BODY_BYTES", 1*1024*1024)
	cfg.MaxRequestBodyBytes = int64(maxReqBody)

	cfg.OTELInsecure, errs = collectBool(errs, "OTEL_EXPORTER_OTLP_INSECURE", false)

	cfg.ReadTimeout, errs = collectDuration(errs, "READ_TIMEOUT", 15*time.Second)
	cfg.WriteTimeout, errs = collectDuration(errs, "WRITE_TIMEOUT", 15*time.Second)
	cfg.ShutdownHTTPTimeout, errs = collectDuration(errs, "SHUTDOWN_HTTP_TIMEOUT", 10*time.Second)

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// collectInt parses an int env var, appending any error to the accumulator.
func collectInt(errs []error, key string, fallback int) (int, []error) {
	v, err := envInt(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectBool parses a bool env var, appending any error to the accumulator.
func collectBool(errs []error, key string, fallback bool) (bool, []error) {
	v, err := envBool(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// collectDuration parses a duration env var, appending any error to the accumulator.
func collectDuration(errs []error, key string, fallback time.Duration) (time.Duration, []error) {
	v, err := envDuration(key, fallback)
	if err != nil {
		errs = append(errs, err)
	}
	return v, errs
}

// Validate checks that required configuration is present and sane.
func (c Config) Validate() error {
	var errs []error

	if c.PolicyDBPath == "" {
		errs = append(errs, errors.New("config: POLICY_DB_PATH is required"))
	}
	if c.TelemetryDBPath == "" {
		errs = append(errs, errors.New("config: TELEMETRY_DB_PATH is required"))
	}
	if c.PolicyPort < 1 || c.PolicyPort > 65535 {
		errs = append(errs, errors.New("config: POLICY_PORT must be between 1 and 65535"))
	}
	if c.TelemetryPort < 1 || c.TelemetryPort > 65535 {
		errs = append(errs, errors.New("config: TELEMETRY_PORT must be between 1 and 65535"))
	}
	if c.MaxRequestBodyBytes <= 0 {
		errs = append(errs, errors.New("config: MAX_REQUEST_BODY_BYTES must be positive"))
	}
	if c.ReadTimeout <= 0 {
		errs = append(errs, errors.New("config: READ_TIMEOUT must be positive"))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("config: WRITE_TIMEOUT must be positive"))
	}
	if c.ShutdownHTTPTimeout <= 0 {
		errs = append(errs, errors.New("config: SHUTDOWN_HTTP_TIMEOUT must be positive"))
	}
	if c.SigningSecretPath != "" {
		if err := validateKeyFile(c.SigningSecretPath, "SIGNING_SECRET_PATH"); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// validateKeyFile checks that a key file exists, is readable, is non-empty,
// and has restrictive permissions (owner-only on Unix).
func validateKeyFile(path, envVar string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config: %s %q: %w", envVar, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config: %s %q is a directory, expected a file", envVar, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("config: %s %q is empty", envVar, path)
	}
	perm := info.Mode().Perm()
	if perm&0o077 != 0 {
		return fmt.Errorf("config: %s %q has overly permissive mode %04o (expected 0600 or stricter)", envVar, path, perm)
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
