package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the runtime settings shared by the CLI and the server.
type Config struct {
	DBPath       string
	ProfilesPath string
	ListenAddr   string
}

// Build loads configuration from an optional YAML file, BUDGETEER_*
// environment variables, and finally flag overrides. Flags win.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BUDGETEER")
	v.AutomaticEnv()

	v.SetDefault("db", "budgeteer.db")
	v.SetDefault("profiles", "profiles.yaml")
	v.SetDefault("listen", "0.0.0.0:3000")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	return &Config{
		DBPath:       v.GetString("db"),
		ProfilesPath: v.GetString("profiles"),
		ListenAddr:   v.GetString("listen"),
	}, nil
}
