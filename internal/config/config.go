// Package config loads run settings from a YAML file with FORMLOOM_*
// environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config describes one submission run.
type Config struct {
	// FormURL is the public viewform address of the target form.
	FormURL string `mapstructure:"form_url"`
	// Count is the number of synthetic responses to generate.
	Count int `mapstructure:"count"`
	// DelayMs is the operator-configured minimum pause between dispatch
	// groups. Zero means max speed.
	DelayMs int `mapstructure:"delay_ms"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
	// TargetRPS caps the sustained delivery rate.
	TargetRPS float64 `mapstructure:"target_rps"`
	Proxies   []string `mapstructure:"proxies"`
	Debug     bool     `mapstructure:"debug"`
	LogFile   string   `mapstructure:"log_file"`

	// Weights maps question ID to option value to percentage weight.
	Weights map[string]map[string]float64 `mapstructure:"weights"`
	// Overrides maps question ID to a comma-separated value pool that
	// cycles across rows.
	Overrides map[string]string `mapstructure:"overrides"`
}

// Load reads the config file at path and applies defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("count", 10)
	v.SetDefault("delay_ms", 1000)
	v.SetDefault("target_rps", 5.0)

	v.SetEnvPrefix("FORMLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.FormURL == "" {
		return nil, fmt.Errorf("config: form_url is required")
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("config: count must be positive, got %d", cfg.Count)
	}
	return &cfg, nil
}

// OverridePools splits every override string into its cycling pool.
func (c *Config) OverridePools() map[string][]string {
	if len(c.Overrides) == 0 {
		return nil
	}
	pools := make(map[string][]string, len(c.Overrides))
	for id, raw := range c.Overrides {
		var pool []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				pool = append(pool, part)
			}
		}
		if len(pool) > 0 {
			pools[id] = pool
		}
	}
	return pools
}
