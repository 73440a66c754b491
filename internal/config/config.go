package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectID     string
	LogLevel      string
	Port          string
	LocalDBPath   string
	AutosaveDelay time.Duration
	SaveTimeout   time.Duration
	MockLatency   bool
	OTLPEndpoint  string
	ServiceName   string
}

// New reads the configuration from the environment, falling back to defaults.
func New() *Config {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("loglevel", "info")
	v.SetDefault("localdbpath", "dashboard.db")
	v.SetDefault("autosavedelay", time.Second)
	v.SetDefault("savetimeout", 10*time.Second)
	v.SetDefault("mocklatency", true)
	v.SetDefault("otel_service_name", "dashboard-api")

	v.AutomaticEnv()

	return &Config{
		ProjectID:     v.GetString("projectid"),
		LogLevel:      v.GetString("loglevel"),
		Port:          v.GetString("port"),
		LocalDBPath:   v.GetString("localdbpath"),
		AutosaveDelay: v.GetDuration("autosavedelay"),
		SaveTimeout:   v.GetDuration("savetimeout"),
		MockLatency:   v.GetBool("mocklatency"),
		OTLPEndpoint:  v.GetString("otel_exporter_otlp_endpoint"),
		ServiceName:   v.GetString("otel_service_name"),
	}
}
