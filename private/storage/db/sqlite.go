// Copyright 2025 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package db provides helpers for sqlite-backed databases.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/scionproto/notary/pkg/private/serrors"
)

// LimitSetter allows setting the connection limits of a database.
type LimitSetter interface {
	SetMaxOpenConns(maxOpenConns int)
	SetMaxIdleConns(maxIdleConns int)
}

// Sqler contains the common functions of *sql.DB and *sql.Tx, so that
// executors can run on either.
type Sqler interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSqlite returns a new SQLite backend opening a database at the given
// path. If no database exists, a new database is created with the given
// schema. If the schema version of the stored database differs from
// schemaVersion, an error is returned.
func NewSqlite(path string, schema string, schemaVersion int) (*sql.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := setup(db, schema, schemaVersion, path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func open(path string) (*sql.DB, error) {
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("in-memory database must use a named file URI")
	}
	noFile, _ := strings.CutPrefix(path, "file:")

	q := make(url.Values)
	// Enforce foreign key constraints.
	q.Set("_foreign_keys", "1")
	// The WAL journal mode allows readers to proceed while a writer holds the
	// database, which the replace operation relies on to never expose a
	// partially rewritten trusted set.
	q.Set("_journal_mode", "WAL")
	// Writers wait for the lock instead of failing with SQLITE_BUSY.
	q.Set("_busy_timeout", "1000")

	uri := fmt.Sprintf("file:%s?%s", noFile, q.Encode())
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, serrors.Wrap("opening database", err, "path", path)
	}
	// The sqlite3 driver does not handle write concurrency from multiple
	// connections; a single connection serializes all statements and
	// transactions.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, serrors.Wrap("initial database connection", err, "path", path)
	}
	return db, nil
}

func setup(db *sql.DB, schema string, schemaVersion int, path string) error {
	var existingVersion int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&existingVersion); err != nil {
		return serrors.Wrap("checking database schema version", err)
	}
	switch {
	case existingVersion == 0:
		if _, err := db.Exec(schema); err != nil {
			return serrors.Wrap("applying schema", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return serrors.Wrap("writing schema version", err)
		}
		return nil
	case existingVersion != schemaVersion:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "have", existingVersion, "path", path)
	default:
		return nil
	}
}
