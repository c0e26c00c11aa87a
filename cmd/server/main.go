// Command server serves the authorizer over HTTP.
package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/go-petr/authorizer/cmd/httpserver"
	"github.com/go-petr/authorizer/internal/authorizer"
	"github.com/go-petr/authorizer/internal/middleware"
	"github.com/go-petr/authorizer/pkg/configpkg"
)

func main() {
	flags := configpkg.Flags("server")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		log.Fatal().Err(err).Msg("cannot parse flags")
	}

	configPath, _ := flags.GetString("config")

	config, err := configpkg.Load(configPath, flags)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	a := authorizer.New()
	server := httpserver.New(a, logger, config)

	logger.Info().
		Str("address", config.ServerAddress).
		Strs("operations", a.Operations()).
		Msg("AUTHORIZER SERVER HAS STARTED")

	if err := server.Engine.Run(config.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
