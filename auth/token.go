package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type (
	// Verifier turns a bearer token into the claims it carries.
	Verifier interface {
		Verify(token string) (Claims, error)
	}

	// Tokens issues and verifies HS256 tokens. It is safe for concurrent use.
	Tokens struct {
		keys   *Keys
		now    func() time.Time
		parser *jwt.Parser
	}

	TokenOption func(*Tokens)
)

var (
	signingMethod = jwt.SigningMethodHS256
)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) {
		t.now = now
	}
}

func NewTokens(keys *Keys, opts ...TokenOption) *Tokens {
	t := &Tokens{keys: keys, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	// exp is checked by Verify, after the signature
	t.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return t
}

// Issue signs a token for sub which expires ttl from now. A negative ttl
// yields a token that is already expired.
func (t *Tokens) Issue(sub Subject, ttl time.Duration) (string, error) {
	claims := Claims{
		ID:   sub.ID,
		Name: sub.Name,
		Exp:  t.now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(t.keys.encoding)
	if err != nil {
		return "", fmt.Errorf("%w, cause %w", TokenCreation, err)
	}
	return signed, nil
}

// Verify checks the structure, then the signature (constant time, HS256
// only) and only then decodes the claims and checks the expiry of token.
// Tokens with exp <= now are rejected, there is no leeway.
func (t *Tokens) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, TokenRejected{Reason: Malformed, Cause: jwt.ErrTokenMalformed}
	}
	sig, err := t.parser.DecodeSegment(parts[2])
	if err != nil {
		return Claims{}, TokenRejected{Reason: Malformed, Cause: err}
	}
	err = signingMethod.Verify(parts[0]+"."+parts[1], sig, t.keys.decoding)
	if err != nil {
		return Claims{}, TokenRejected{Reason: InvalidSignature, Cause: err}
	}

	var claims Claims
	_, err = t.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.keys.decoding, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, TokenRejected{Reason: Malformed, Cause: err}
	case err != nil:
		return Claims{}, TokenRejected{Reason: InvalidSignature, Cause: err}
	}
	if claims.Exp <= t.now().Unix() {
		return Claims{}, TokenRejected{Reason: Expired}
	}
	return claims, nil
}
