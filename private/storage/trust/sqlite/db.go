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

// Package sqlite implements the trust store with a sqlite backend.
package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/scionproto/notary/private/storage/db"
	"github.com/scionproto/notary/private/storage/trust"
)

var _ trust.DB = (*Backend)(nil)

type Backend struct {
	db *sql.DB
	*executor
}

// New returns a new SQLite backend opening a database at the given path. If
// no database exists a new database is created. If the schema version of the
// stored database is different from the one in schema.go, an error is
// returned.
func New(path string) (*Backend, error) {
	database, err := db.NewSqlite(path, Schema, SchemaVersion)
	if err != nil {
		return nil, err
	}
	return &Backend{
		executor: &executor{
			db: database,
		},
		db: database,
	}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// SetMaxOpenConns sets the maximum number of open connections.
func (b *Backend) SetMaxOpenConns(maxOpenConns int) {
	b.db.SetMaxOpenConns(maxOpenConns)
}

// SetMaxIdleConns sets the maximum number of idle connections.
func (b *Backend) SetMaxIdleConns(maxIdleConns int) {
	b.db.SetMaxIdleConns(maxIdleConns)
}

type executor struct {
	sync.RWMutex
	db db.Sqler
}

func (e *executor) IsBlacklisted(ctx context.Context, url string) (bool, error) {
	e.RLock()
	defer e.RUnlock()
	query := `SELECT 1 FROM blacklisted WHERE url = ?`
	var one int
	err := e.db.QueryRowContext(ctx, query, url).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, db.NewReadError("selecting blacklist entry", err, "url", url)
	default:
		return true, nil
	}
}

func (e *executor) IsTrusted(ctx context.Context, url, fingerprint string,
	notBefore time.Time) (bool, error) {

	e.RLock()
	defer e.RUnlock()
	query := `SELECT 1 FROM trusted WHERE url = ? AND fingerprint = ? AND recorded_at >= ?`
	var one int
	err := e.db.QueryRowContext(ctx, query, url, fingerprint, notBefore.Unix()).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, db.NewReadError("selecting trust record", err, "url", url)
	default:
		return true, nil
	}
}

func (e *executor) TrustedRecords(ctx context.Context, url string,
	notBefore time.Time) ([]trust.Record, error) {

	e.RLock()
	defer e.RUnlock()
	query := `SELECT url, fingerprint, recorded_at FROM trusted
		WHERE url = ? AND recorded_at >= ? ORDER BY fingerprint`
	rows, err := e.db.QueryContext(ctx, query, url, notBefore.Unix())
	if err != nil {
		return nil, db.NewReadError("selecting trust records", err, "url", url)
	}
	defer rows.Close()
	var records []trust.Record
	for rows.Next() {
		var r trust.Record
		var recordedAt int64
		if err := rows.Scan(&r.URL, &r.Fingerprint, &recordedAt); err != nil {
			return nil, db.NewReadError("scanning trust record", err)
		}
		r.RecordedAt = time.Unix(recordedAt, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating trust records", err)
	}
	return records, nil
}

func (e *executor) Blacklist(ctx context.Context) ([]string, error) {
	e.RLock()
	defer e.RUnlock()
	query := `SELECT url FROM blacklisted ORDER BY url`
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, db.NewReadError("selecting blacklist", err)
	}
	defer rows.Close()
	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, db.NewReadError("scanning blacklist entry", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating blacklist", err)
	}
	return urls, nil
}

func (b *Backend) ReplaceTrusted(ctx context.Context, url string,
	fingerprints []string) error {

	b.Lock()
	defer b.Unlock()
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return db.NewTxError("creating transaction", err)
	}
	if err := replaceTrusted(ctx, tx, url, fingerprints, time.Now()); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return db.NewTxError("committing transaction", err)
	}
	return nil
}

func replaceTrusted(ctx context.Context, tx *sql.Tx, url string,
	fingerprints []string, now time.Time) error {

	if _, err := tx.ExecContext(ctx, `DELETE FROM trusted WHERE url = ?`, url); err != nil {
		return db.NewWriteError("deleting stale trust records", err, "url", url)
	}
	// Duplicate fingerprints within one fetch are collapsed; re-inserting an
	// existing pair is a no-op success.
	query := `INSERT OR IGNORE INTO trusted (url, fingerprint, recorded_at) VALUES (?, ?, ?)`
	for _, fp := range fingerprints {
		if _, err := tx.ExecContext(ctx, query, url, fp, now.Unix()); err != nil {
			return db.NewWriteError("inserting trust record", err,
				"url", url, "fingerprint", fp)
		}
	}
	return nil
}

func (e *executor) InsertBlacklist(ctx context.Context, url string) error {
	e.Lock()
	defer e.Unlock()
	query := `INSERT OR IGNORE INTO blacklisted (url) VALUES (?)`
	if _, err := e.db.ExecContext(ctx, query, url); err != nil {
		return db.NewWriteError("inserting blacklist entry", err, "url", url)
	}
	return nil
}

func (e *executor) RemoveBlacklist(ctx context.Context, url string) error {
	e.Lock()
	defer e.Unlock()
	query := `DELETE FROM blacklisted WHERE url = ?`
	if _, err := e.db.ExecContext(ctx, query, url); err != nil {
		return db.NewWriteError("deleting blacklist entry", err, "url", url)
	}
	return nil
}

func (e *executor) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	e.Lock()
	defer e.Unlock()
	query := `DELETE FROM trusted WHERE recorded_at < ?`
	res, err := e.db.ExecContext(ctx, query, cutoff.Unix())
	if err != nil {
		return 0, db.NewWriteError("deleting expired trust records", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, db.NewWriteError("determining number of deleted records", err)
	}
	return int(deleted), nil
}
