package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds environment-driven defaults; CLI flags override them.
type Config struct {
	DBPath            string `mapstructure:"DB_PATH"`
	StrictTimestamps  bool   `mapstructure:"STRICT_TIMESTAMPS"`
	StorageLimitBytes int64  `mapstructure:"STORAGE_LIMIT_BYTES"`
	ChartSamples      int    `mapstructure:"CHART_SAMPLES"`
}

// Load reads GPXROUTE_* environment variables over the defaults. A value
// that does not decode into its field is an error.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("GPXROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("DB_PATH", "gpxroute.db")
	v.SetDefault("STRICT_TIMESTAMPS", false)
	v.SetDefault("STORAGE_LIMIT_BYTES", 50*1024*1024)
	v.SetDefault("CHART_SAMPLES", 100)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid GPXROUTE_* configuration: %w", err)
	}
	return cfg, nil
}
