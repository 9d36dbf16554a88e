package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const pgUniqueViolation = "23505"

var postgresDialect = dialect{
	findByID:   `select id, name, password_hash, created_at from users where id = $1`,
	findByName: `select id, name, password_hash, created_at from users where name = $1`,
	insert:     `insert into users(name, password_hash) values ($1, $2) returning id`,
	uniqueFailed: func(err error) bool {
		var pgerr *pgconn.PgError
		return errors.As(err, &pgerr) && pgerr.Code == pgUniqueViolation
	},
}

func openPostgres(ctx context.Context, dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open postgres connection, cause %w", err)
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping postgres, cause %w", err)
	}
	err = migrate(ctx, db, goose.DialectPostgres, "postgres")
	if err != nil {
		db.Close()
		return nil, err
	}
	return newSQLStore(db, postgresDialect), nil
}

// NewPostgresStore wraps an already migrated connection.
func NewPostgresStore(db *sql.DB) Store {
	return newSQLStore(db, postgresDialect)
}
