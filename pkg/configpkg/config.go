// Package configpkg provides parsing functionality for flags, environment
// variables and config files.
package configpkg

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from flags, environment variables or a config
// file, in that order of precedence.
type Config struct {
	Environment   string `mapstructure:"GO_ENV" validate:"omitempty,oneof=development production test"`
	LogLevel      string `mapstructure:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS" validate:"required,hostname_port"`
	ShowInput     bool   `mapstructure:"SHOW_INPUT"`
	Strict        bool   `mapstructure:"STRICT"`
}

var defaults = map[string]any{
	"GO_ENV":         "production",
	"LOG_LEVEL":      "info",
	"SERVER_ADDRESS": "localhost:8080",
	"SHOW_INPUT":     false,
	"STRICT":         false,
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"showinput": "SHOW_INPUT",
	"strict":    "STRICT",
	"log-level": "LOG_LEVEL",
	"addr":      "SERVER_ADDRESS",
}

// Flags returns the command line flags understood by Load.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.String("config", "./configs", "directory holding app.env")
	fs.Bool("showinput", false, "echo every input line before its result")
	fs.Bool("strict", false, "stop at the first line that cannot be processed")
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.String("addr", "", "HTTP listen address")

	return fs
}

// Load reads configuration from flags, environment variables and the app.env
// file in path. A missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return c, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if err := validator.New().Struct(c); err != nil {
		return c, err
	}

	return c, nil
}
