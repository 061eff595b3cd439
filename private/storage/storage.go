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

// Package storage provides factories for the application storage backends.
package storage

import (
	"io"

	"github.com/scionproto/notary/pkg/log"
	"github.com/scionproto/notary/private/config"
	"github.com/scionproto/notary/private/storage/db"
	truststorage "github.com/scionproto/notary/private/storage/trust"
	sqlitetrustdb "github.com/scionproto/notary/private/storage/trust/sqlite"
)

// Backend indicates the database backend type.
type Backend string

const (
	// BackendSqlite indicates an sqlite backend.
	BackendSqlite Backend = "sqlite"
	// DefaultTrustDBPath is the default connection string for the trust
	// database.
	DefaultTrustDBPath = "/share/data/notary.trust.db"
)

// TrustDB extends the trust store interface with lifecycle management.
type TrustDB interface {
	io.Closer
	truststorage.DB
}

var _ config.Config = (*DBConfig)(nil)

// DBConfig is the configuration for the connection to a database.
type DBConfig struct {
	Connection   string `toml:"connection,omitempty"`
	MaxOpenConns int    `toml:"max_open_conns,omitempty"`
	MaxIdleConns int    `toml:"max_idle_conns,omitempty"`
}

// SetConnLimits sets the maximum number of open and idle connections based on
// the configuration. Limits of 0 leave the backend's own defaults in place.
func SetConnLimits(d db.LimitSetter, c DBConfig) {
	if c.MaxOpenConns != 0 {
		d.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns != 0 {
		d.SetMaxIdleConns(c.MaxIdleConns)
	}
}

func (cfg *DBConfig) InitDefaults() {
	if cfg.Connection == "" {
		cfg.Connection = DefaultTrustDBPath
	}
}

func (cfg *DBConfig) Validate() error {
	return nil
}

// Sample writes a config sample to the writer.
func (cfg *DBConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, trustDBSample)
}

// ConfigName is the key in the toml file.
func (cfg *DBConfig) ConfigName() string {
	return "trust_db"
}

const trustDBSample = `
# Connection for the trust database.
connection = "/share/data/notary.trust.db"

# Maximum number of open connections to the database. A value of 0 keeps the
# backend default of a single connection, which serializes all writers.
max_open_conns = 0

# Maximum number of idle connections to the database.
max_idle_conns = 0
`

// NewTrustStorage opens the trust database.
func NewTrustStorage(c DBConfig) (TrustDB, error) {
	log.Info("Connecting TrustDB", "backend", BackendSqlite, "connection", c.Connection)
	tdb, err := sqlitetrustdb.New(c.Connection)
	if err != nil {
		return nil, err
	}
	SetConnLimits(tdb, c)
	return tdb, nil
}
