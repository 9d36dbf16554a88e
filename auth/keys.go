package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
)

const (
	RootKeyEnvVar = "TURNSTILE_ROOT_KEY"
	MinSecretSize = 32
)

type (
	// KeyFn loads the raw signing secret. The returned slice belongs to the
	// caller.
	KeyFn func(context.Context) ([]byte, error)

	// Keys holds the material used to sign and verify tokens. Both keys come
	// from the same secret (HMAC) and never change after NewKeys returns.
	Keys struct {
		encoding []byte
		decoding []byte
	}
)

func NewKeys(secret []byte) (*Keys, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Keys{
		encoding: append([]byte(nil), secret...),
		decoding: append([]byte(nil), secret...),
	}, nil
}

// KeyFnFromEnv decodes a base64 secret from varname and clears the variable
// right after reading it, so child processes never see it.
func KeyFnFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) (KeyFn, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	if len(val) == 0 {
		return nil, fmt.Errorf("auth: environment variable %v is empty", varname)
	}
	secret, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("auth: cannot decode string to valid key, cause %v", err)
	} else if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("auth: decoded key too short got %v expecting at least %v bytes", len(secret), MinSecretSize)
	}
	return StaticKeyFn(secret), nil
}

// StaticKeyFn always returns a copy of secret.
func StaticKeyFn(secret []byte) KeyFn {
	secret = append([]byte(nil), secret...)
	return func(context.Context) ([]byte, error) {
		return append([]byte(nil), secret...), nil
	}
}

// OnceKeys calls fn at most once, the first time the returned function is
// called. Concurrent callers block until that call finishes and all of them
// get the same *Keys (or the same error).
func OnceKeys(fn KeyFn) func(context.Context) (*Keys, error) {
	var once sync.Once
	var keys *Keys
	var err error
	return func(ctx context.Context) (*Keys, error) {
		once.Do(func() {
			var secret []byte
			secret, err = fn(ctx)
			if err != nil {
				err = fmt.Errorf("auth: unable to load signing secret, cause %w", err)
				return
			}
			defer wipe(secret)
			keys, err = NewKeys(secret)
		})
		return keys, err
	}
}
