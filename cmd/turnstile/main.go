package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrebq/turnstile/cmd/turnstile/keys"
	"github.com/andrebq/turnstile/cmd/turnstile/serve"
	"github.com/andrebq/turnstile/cmd/turnstile/users"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// newApp builds the cli. Once flags are parsed, logger is replaced by the
// one configured through --log-level and --log-pretty.
func newApp(logger *zerolog.Logger) *cli.App {
	var logLevel string
	var logPretty bool
	return &cli.App{
		Name:  "turnstile",
		Usage: "User registration and bearer token authentication over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level of log messages (trace, debug, info, warn, error)",
				EnvVars:     []string{"TURNSTILE_LOG_LEVEL"},
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.BoolFlag{
				Name:        "log-pretty",
				Usage:       "Human friendly logs instead of JSON",
				EnvVars:     []string{"TURNSTILE_LOG_PRETTY"},
				Destination: &logPretty,
			},
		},
		Before: func(ctx *cli.Context) error {
			*logger = logutil.New(logLevel, logPretty, ctx.App.ErrWriter)
			ctx.Context = logutil.WithLogger(ctx.Context, *logger)
			return nil
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
			keys.Cmd(),
		},
	}
}

func main() {
	logger := logutil.New("info", false, nil)
	app := newApp(&logger)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		logger.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
