package serve

import (
	"fmt"
	"time"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/credstore"
	"github.com/andrebq/turnstile/internal/cmdflags"
	"github.com/andrebq/turnstile/internal/httpserver"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/internal/routes"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7007"
	var database string
	var rootKeyEnvVar string
	var cost int
	var tokenTTL time.Duration
	var cacheTTL time.Duration
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind for incoming request",
				EnvVars:     []string{"TURNSTILE_BIND"},
				Destination: &bindAddr,
				Value:       bindAddr,
			},
			cmdflags.Database(&database),
			cmdflags.RootKeyEnvVar(&rootKeyEnvVar),
			cmdflags.BcryptCost(&cost),
			cmdflags.TokenTTL(&tokenTTL),
			cmdflags.CacheTTL(&cacheTTL),
		},
		Action: func(ctx *cli.Context) error {
			if cost < auth.MinCost || cost > auth.MaxCost {
				return fmt.Errorf("bcrypt cost must be between %v and %v", auth.MinCost, auth.MaxCost)
			}
			if tokenTTL <= 0 {
				return fmt.Errorf("token ttl must be positive, got %v", tokenTTL)
			}
			keyfn, err := auth.KeyFnFromEnv(rootKeyEnvVar, nil, nil)
			if err != nil {
				return err
			}
			keys, err := auth.OnceKeys(keyfn)(ctx.Context)
			if err != nil {
				return err
			}
			store, err := credstore.Open(ctx.Context, database)
			if err != nil {
				return err
			}
			defer store.Close()
			cached, err := credstore.Cached(store, cacheTTL)
			if err != nil {
				return err
			}
			svc := auth.NewService(cached, auth.NewTokens(keys), auth.RandomSaltPolicy{Cost: cost}, tokenTTL)
			handler, err := routes.AsHandler(ctx.Context, svc, cached)
			if err != nil {
				return err
			}
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().
				Str("database", redact(database)).
				Int("bcrypt.cost", cost).
				Dur("token.ttl", tokenTTL).
				Dur("cache.ttl", cacheTTL).
				Msg("Configuration loaded")
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
