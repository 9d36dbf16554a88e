package users

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/credstore"
	"github.com/andrebq/turnstile/internal/cmdflags"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"u"},
		Usage:   "Manage user credentials",
		Subcommands: []*cli.Command{
			registerCmd(),
			hashCmd(),
		},
	}
}

func registerCmd() *cli.Command {
	var database string
	var username string
	var cost int
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from the terminal or stdin)",
		Flags: []cli.Flag{
			cmdflags.Database(&database),
			cmdflags.BcryptCost(&cost),
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := readPassword(ctx.App.Reader, ctx.App.ErrWriter)
			if err != nil {
				return err
			}
			store, err := credstore.Open(ctx.Context, database)
			if err != nil {
				return err
			}
			defer store.Close()
			svc := auth.NewService(store, nil, auth.RandomSaltPolicy{Cost: cost}, 0)
			id, err := svc.Register(ctx.Context, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "%v\n", id)
			return nil
		},
	}
}

func hashCmd() *cli.Command {
	var cost int
	var salt string
	return &cli.Command{
		Name:  "hash",
		Usage: "Print the bcrypt hash of the password read from stdin, useful for fixtures",
		Flags: []cli.Flag{
			cmdflags.BcryptCost(&cost),
			&cli.StringFlag{
				Name:        "salt",
				Usage:       "16 byte salt, either 32 hex chars or the 22 char bcrypt encoding. The same password and salt always give the same hash. A random salt is used when empty",
				Destination: &salt,
			},
		},
		Action: func(ctx *cli.Context) error {
			password, err := readPassword(ctx.App.Reader, ctx.App.ErrWriter)
			if err != nil {
				return err
			}
			var hash string
			if salt == "" {
				hash, err = auth.RandomSaltPolicy{Cost: cost}.Hash(password)
			} else {
				var fixed auth.Salt
				fixed, err = parseSalt(salt)
				if err != nil {
					return err
				}
				hash, err = auth.FixedSaltPolicy{Cost: cost, Salt: fixed}.Hash(password)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, hash)
			return nil
		},
	}
}

const bcryptSaltLen = 22

func parseSalt(s string) (auth.Salt, error) {
	if len(s) == bcryptSaltLen {
		return auth.ParseSalt(s)
	}
	var salt auth.Salt
	buf, err := hex.DecodeString(s)
	if err != nil {
		return salt, fmt.Errorf("salt is not valid hex, cause %w", err)
	} else if len(buf) != auth.SaltSize {
		return salt, fmt.Errorf("salt should have %v bytes got %v", auth.SaltSize, len(buf))
	}
	copy(salt[:], buf)
	return salt, nil
}

// readPassword prompts without echo when in is a terminal, otherwise it
// reads the first line of in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		buf, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("unable to read password, cause %w", err)
		}
		return checkPassword(string(buf))
	}
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if sc.Err() != nil {
			return "", sc.Err()
		}
		return "", errors.New("missing password from stdin")
	}
	return checkPassword(strings.TrimSpace(sc.Text()))
}

func checkPassword(p string) (string, error) {
	if len(p) == 0 {
		return "", errors.New("password cannot be empty")
	}
	return p, nil
}
