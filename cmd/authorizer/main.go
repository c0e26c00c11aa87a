// Command authorizer reads operations from stdin, one JSON object per line,
// and writes one JSON result per operation to stdout.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/go-petr/authorizer/internal/authorizer"
	"github.com/go-petr/authorizer/internal/middleware"
	"github.com/go-petr/authorizer/internal/streamdelivery"
	"github.com/go-petr/authorizer/pkg/configpkg"
)

func main() {
	flags := configpkg.Flags("authorizer")
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

	logger := middleware.CreateLogger(config).
		With().
		Str("run_id", uuid.NewString()).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	a := authorizer.New()

	logger.Debug().
		Strs("operations", a.Operations()).
		Interface("rules", a.Rules()).
		Msg("authorizer ready")

	handler := streamdelivery.NewHandler(a, streamdelivery.Options{
		ShowInput: config.ShowInput,
		Strict:    config.Strict,
	})

	err = handler.Run(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		stop()
		logger.Fatal().Stack().Err(err).Msg("cannot process input")
	}
}
