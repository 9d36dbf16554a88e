package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrebq/turnstile/credstore"
	"github.com/andrebq/turnstile/internal/logutil"
)

// Register hashes password with a fresh random salt and stores the user.
// A duplicate name is reported as credstore.NameTaken.
func (s *Service) Register(ctx context.Context, name, password string) (int64, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return 0, err
	}
	id, err := s.store.Insert(ctx, name, hash)
	if err != nil {
		if errors.Is(err, credstore.NameTaken{}) {
			return 0, err
		}
		return 0, fmt.Errorf("unable to register %q, cause %w", name, err)
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Int64("user.id", id).Str("user.name", name).Msg("User registered")
	return id, nil
}
