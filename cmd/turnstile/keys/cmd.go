package keys

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/andrebq/turnstile/auth"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "Manage the token signing secret",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Print a new random secret, ready to be exported as the root key environment variable",
				Action: func(ctx *cli.Context) error {
					secret := make([]byte, auth.MinSecretSize)
					if _, err := rand.Read(secret); err != nil {
						return fmt.Errorf("unable to generate secret, cause %w", err)
					}
					fmt.Fprintln(ctx.App.Writer, base64.StdEncoding.EncodeToString(secret))
					return nil
				},
			},
		},
	}
}
