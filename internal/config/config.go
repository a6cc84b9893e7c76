// Package config loads wifiwatch configuration via Viper and builds the logger.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables.
// If configPath is empty, wifiwatch.yaml is searched in the usual locations.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/wifiwatch.db")

	// The single network being tracked. network.ssid has no default on
	// purpose: the daemon refuses to start without one.
	v.SetDefault("network.security", "psk")
	v.SetDefault("network.target_new", false)

	v.SetDefault("tracker.max_scan_age", "15s")
	v.SetDefault("tracker.tick_interval", "10s")
	v.SetDefault("scan.enabled", true)
	v.SetDefault("scan.interval", "10s")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("wifiwatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/wifiwatch")
	}

	// Environment variable support: WW_SERVER_PORT=9090
	v.SetEnvPrefix("WW")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
