package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dashboard.db", cfg.LocalDBPath)
	assert.Equal(t, time.Second, cfg.AutosaveDelay)
	assert.Equal(t, 10*time.Second, cfg.SaveTimeout)
	assert.True(t, cfg.MockLatency)
	assert.Equal(t, "dashboard-api", cfg.ServiceName)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("PROJECTID", "my-project")
	t.Setenv("LOGLEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("LOCALDBPATH", "/tmp/dash.db")
	t.Setenv("AUTOSAVEDELAY", "250ms")
	t.Setenv("SAVETIMEOUT", "3s")
	t.Setenv("MOCKLATENCY", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("OTEL_SERVICE_NAME", "dash")

	cfg := New()

	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/dash.db", cfg.LocalDBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.AutosaveDelay)
	assert.Equal(t, 3*time.Second, cfg.SaveTimeout)
	assert.False(t, cfg.MockLatency)
	assert.Equal(t, "localhost:4318", cfg.OTLPEndpoint)
	assert.Equal(t, "dash", cfg.ServiceName)
}
