package cmdflags

import (
	"time"

	"github.com/andrebq/turnstile/auth"
	"github.com/urfave/cli/v2"
)

const DefaultDatabase = "./data/turnstile.db"

func Database(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = DefaultDatabase
	}
	return &cli.StringFlag{
		Name:        "database",
		Aliases:     []string{"db"},
		Usage:       "Path to a sqlite database or a postgres:// connection string",
		EnvVars:     []string{"TURNSTILE_DATABASE"},
		Destination: out,
		Value:       *out,
	}
}

func RootKeyEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.RootKeyEnvVar
	}
	return &cli.StringFlag{
		Name:        "root-key-envvar-name",
		Usage:       "Name of the environment variable that holds the root key. The key itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}

func BcryptCost(out *int) cli.Flag {
	if *out == 0 {
		*out = auth.DefaultCost
	}
	return &cli.IntFlag{
		Name:        "bcrypt-cost",
		Aliases:     []string{"cost"},
		Usage:       "Cost factor used to hash new passwords",
		EnvVars:     []string{"TURNSTILE_BCRYPT_COST"},
		Value:       *out,
		Destination: out,
	}
}

func TokenTTL(out *time.Duration) cli.Flag {
	if *out == 0 {
		*out = auth.DefaultTokenTTL
	}
	return &cli.DurationFlag{
		Name:        "token-ttl",
		Usage:       "How long issued tokens remain valid",
		EnvVars:     []string{"TURNSTILE_TOKEN_TTL"},
		Value:       *out,
		Destination: out,
	}
}

func CacheTTL(out *time.Duration) cli.Flag {
	return &cli.DurationFlag{
		Name:        "cache-ttl",
		Usage:       "How long user lookups are cached in memory, 0 disables the cache",
		EnvVars:     []string{"TURNSTILE_CACHE_TTL"},
		Value:       *out,
		Destination: out,
	}
}
