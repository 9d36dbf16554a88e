package auth

import (
	"context"
	"errors"
	"time"

	"github.com/andrebq/turnstile/credstore"
	"github.com/andrebq/turnstile/internal/logutil"
)

// DefaultTokenTTL is how long a token issued by Authorize stays valid.
const DefaultTokenTTL = time.Hour

type (
	// Credentials is the subset of credstore.Store the login flow needs.
	Credentials interface {
		FindByID(ctx context.Context, id int64) (credstore.Credential, error)
		FindByName(ctx context.Context, name string) (credstore.Credential, error)
		Insert(ctx context.Context, name, passwordHash string) (int64, error)
	}

	// LoginRequest identifies a user by id or by name. When both are
	// present the id wins.
	LoginRequest struct {
		ID       *int64  `json:"id"`
		Name     *string `json:"name"`
		Password string  `json:"password"`
	}

	Service struct {
		store     Credentials
		tokens    *Tokens
		passwords RandomSaltPolicy
		tokenTTL  time.Duration
	}
)

// NewService composes the login and registration flows. A zero ttl
// means DefaultTokenTTL.
func NewService(store Credentials, tokens *Tokens, passwords RandomSaltPolicy, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		store:     store,
		tokens:    tokens,
		passwords: passwords,
		tokenTTL:  ttl,
	}
}

// Verifier exposes the token verifier used by protected routes.
func (s *Service) Verifier() Verifier {
	return s.tokens
}

// Authorize checks the credentials in req and returns a signed token.
//
// A failed lookup is reported as InvalidToken, so callers cannot tell an
// unknown user apart from any other token problem.
func (s *Service) Authorize(ctx context.Context, req LoginRequest) (string, error) {
	log := logutil.GetOrDefault(ctx)
	if len(req.Password) == 0 {
		return "", MissingCredentials
	}
	var cred credstore.Credential
	var err error
	switch {
	case req.ID != nil:
		cred, err = s.store.FindByID(ctx, *req.ID)
	case req.Name != nil:
		cred, err = s.store.FindByName(ctx, *req.Name)
	default:
		return "", MissingToken
	}
	if err != nil {
		if !errors.Is(err, credstore.UserNotFound{}) {
			log.Error().Err(err).Msg("Credential lookup failed")
		}
		return "", InvalidToken
	}
	ok, err := VerifyPassword(req.Password, cred.PasswordHash)
	if err != nil {
		log.Error().Err(err).Int64("user.id", cred.ID).Msg("Unable to verify stored password hash")
		return "", err
	} else if !ok {
		log.Debug().Int64("user.id", cred.ID).Msg("Wrong password")
		return "", WrongCredentials
	}
	token, err := s.tokens.Issue(Subject{ID: cred.ID, Name: cred.Name}, s.tokenTTL)
	if err != nil {
		log.Error().Err(err).Int64("user.id", cred.ID).Msg("Unable to sign token")
		return "", err
	}
	log.Info().Int64("user.id", cred.ID).Str("user.name", cred.Name).Msg("Token issued")
	return token, nil
}
