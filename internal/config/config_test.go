package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8082, cfg.PolicyPort)
	require.Equal(t, 8081, cfg.TelemetryPort)
	require.Equal(t, "data/policy.db", cfg.PolicyDBPath)
	require.Equal(t, "data/telemetry.db", cfg.TelemetryDBPath)
	require.Equal(t, int64(1*1024*1024), cfg.MaxRequestBodyBytes)
}

func TestLoad_InvalidIntRejected(t *testing.T) {
	t.Setenv("POLICY_PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate_RejectsOutOfRangePort(t *testing.T) {
	cfg := Config{
		PolicyDBPath:        "data/policy.db",
		TelemetryDBPath:     "data/telemetry.db",
		PolicyPort:          0,
		TelemetryPort:       8081,
		MaxRequestBodyBytes: 1024,
		ReadTimeout:         1,
		WriteTimeout:        1,
		ShutdownHTTPTimeout: 1,
	}
	require.Error(t, cfg.Validate())
}
