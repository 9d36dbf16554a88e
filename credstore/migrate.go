package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/andrebq/turnstile/credstore/migrations"
	"github.com/pressly/goose/v3"
)

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("unable to locate migrations for %v, cause %w", dir, err)
	}
	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("unable to prepare migrations, cause %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("unable to apply migrations, cause %w", err)
	}
	return nil
}
