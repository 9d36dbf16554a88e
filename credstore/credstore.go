// Package credstore keeps user credentials in a relational table.
//
// SQLite is the default backend, a postgres:// (or postgresql://) DSN
// switches to PostgreSQL. Both share the same schema, managed by goose.
package credstore

import (
	"context"
	"strings"
	"time"
)

type (
	Credential struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"password_hash"`
		CreatedAt    time.Time `json:"created_at"`
	}

	Store interface {
		FindByID(ctx context.Context, id int64) (Credential, error)
		FindByName(ctx context.Context, name string) (Credential, error)
		// Insert returns the id of the new user or NameTaken
		Insert(ctx context.Context, name, passwordHash string) (int64, error)
		Close() error
	}
)

// Open connects to dsn and applies any pending migration.
func Open(ctx context.Context, dsn string) (Store, error) {
	if isPostgres(dsn) {
		return openPostgres(ctx, dsn)
	}
	return openSQLite(ctx, dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
