package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type (
	dialect struct {
		findByID     string
		findByName   string
		insert       string
		uniqueFailed func(error) bool
	}

	sqlStore struct {
		db      *sql.DB
		dialect dialect
	}
)

func newSQLStore(db *sql.DB, d dialect) *sqlStore {
	return &sqlStore{db: db, dialect: d}
}

func (s *sqlStore) FindByID(ctx context.Context, id int64) (Credential, error) {
	c, err := s.scanOne(s.db.QueryRowContext(ctx, s.dialect.findByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, UserNotFound{ID: id}
	} else if err != nil {
		return Credential{}, fmt.Errorf("unable to load user %v, cause %w", id, err)
	}
	return c, nil
}

func (s *sqlStore) FindByName(ctx context.Context, name string) (Credential, error) {
	c, err := s.scanOne(s.db.QueryRowContext(ctx, s.dialect.findByName, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, UserNotFound{Name: name}
	} else if err != nil {
		return Credential{}, fmt.Errorf("unable to load user %q, cause %w", name, err)
	}
	return c, nil
}

func (s *sqlStore) Insert(ctx context.Context, name, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.insert, name, passwordHash).Scan(&id)
	if err != nil {
		if s.dialect.uniqueFailed(err) {
			return 0, NameTaken{Name: name}
		}
		return 0, fmt.Errorf("unable to insert user %q, cause %w", name, err)
	}
	return id, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) scanOne(row *sql.Row) (Credential, error) {
	var c Credential
	err := row.Scan(&c.ID, &c.Name, &c.PasswordHash, &c.CreatedAt)
	return c, err
}
