package config

import (
	"github.com/spf13/viper"

	"github.com/moyu-x/smart-organizer/internal"
)

type Config struct {
	Organize struct {
		ByDate           bool `mapstructure:"by_date"`
		RemoveDuplicates bool `mapstructure:"remove_duplicates"`
		OptimizeSpace    bool `mapstructure:"optimize_space"`
	}
	Optimizer struct {
		ThresholdBytes int64 `mapstructure:"threshold_bytes"`
	}
	Performance struct {
		Workers int
	}
	Logging struct {
		Level string
		File  string
	}
}

var cfg Config

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.smart-organizer")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/smart-organizer")

	viper.SetDefault("organize.by_date", false)
	viper.SetDefault("organize.remove_duplicates", true)
	viper.SetDefault("organize.optimize_space", false)
	viper.SetDefault("optimizer.threshold_bytes", internal.DefaultSizeThreshold)
	viper.SetDefault("performance.workers", internal.DefaultWorkers)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Get() *Config {
	return &cfg
}
