package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

const MemoryDSN = ":memory:"

var sqliteDialect = dialect{
	findByID:   `select id, name, password_hash, created_at from users where id = ?`,
	findByName: `select id, name, password_hash, created_at from users where name = ?`,
	insert:     `insert into users(name, password_hash) values (?, ?) returning id`,
	uniqueFailed: func(err error) bool {
		var serr sqlite3.Error
		return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
	},
}

func openSQLite(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimPrefix(dsn, "file:")
	connstr := MemoryDSN
	if dsn != MemoryDSN {
		err := os.MkdirAll(filepath.Dir(dsn), 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory to store %v, cause %w", dsn, err)
		}
		connstr = fmt.Sprintf("file:%v?_writable_schema=false&_journal=wal&_busy_timeout=5000&mode=rwc", dsn)
	}
	db, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", dsn, err)
	}
	if dsn == MemoryDSN {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping %v, cause %w", dsn, err)
	}
	err = migrate(ctx, db, goose.DialectSQLite3, "sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	return newSQLStore(db, sqliteDialect), nil
}
