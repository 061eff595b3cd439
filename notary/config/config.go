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

// Package config describes the configuration of the notary service.
package config

import (
	"io"
	"time"

	"github.com/scionproto/notary/notary"
	"github.com/scionproto/notary/pkg/log"
	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/pkg/private/util"
	"github.com/scionproto/notary/private/config"
	"github.com/scionproto/notary/private/storage"
)

const (
	// DefaultRetention is the default maximum age of cached trust records.
	DefaultRetention = 24 * time.Hour
	// DefaultFetchTimeout is the default timeout for fetching certificates
	// from the target.
	DefaultFetchTimeout = 10 * time.Second
	// DefaultAPIAddr is the default address the HTTP API listens on.
	DefaultAPIAddr = ":8080"
)

var _ config.Config = (*Config)(nil)

// Config is the notary service configuration.
type Config struct {
	General General          `toml:"general,omitempty"`
	Logging log.Config       `toml:"log,omitempty"`
	Metrics Metrics          `toml:"metrics,omitempty"`
	TrustDB storage.DBConfig `toml:"trust_db,omitempty"`
	Notary  NotaryConfig     `toml:"notary,omitempty"`
	API     API              `toml:"api,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.TrustDB,
		&cfg.Notary,
		&cfg.API,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.TrustDB,
		&cfg.Notary,
		&cfg.API,
	)
}

// Sample generates a sample config file for the notary service.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil,
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.TrustDB,
		&cfg.Notary,
		&cfg.API,
	)
}

// ConfigName is the toml key.
func (cfg *Config) ConfigName() string {
	return "notary_config"
}

var _ config.Config = (*General)(nil)

// General holds the general service configuration.
type General struct {
	// ID is the identifier of the service instance, used in logs and metrics.
	ID string `toml:"id,omitempty"`
}

func (cfg *General) InitDefaults() {
	if cfg.ID == "" {
		cfg.ID = "notary"
	}
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("id must be set")
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, generalSample)
}

func (cfg *General) ConfigName() string {
	return "general"
}

var _ config.Config = (*Metrics)(nil)

// Metrics holds the metrics exposition configuration.
type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// Prometheus is the address to expose the prometheus endpoint on. An
	// empty address disables metrics exposition.
	Prometheus string `toml:"prometheus,omitempty"`
}

func (cfg *Metrics) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

var _ config.Config = (*NotaryConfig)(nil)

// NotaryConfig holds the configuration specific to the verdict engine.
type NotaryConfig struct {
	// Retention is the maximum age of a trust record before it is considered
	// expired.
	Retention util.DurWrap `toml:"retention,omitempty"`
	// MaxFingerprints bounds the number of fingerprints cached per url.
	MaxFingerprints int `toml:"max_fingerprints,omitempty"`
	// FetchTimeout bounds the certificate fetch from the target, handshake
	// included.
	FetchTimeout util.DurWrap `toml:"fetch_timeout,omitempty"`
	// Key is the path to the PEM-encoded PKCS#8 signing key. If empty, the
	// service runs without signing and attestations are degraded to unsigned.
	Key string `toml:"key,omitempty"`
}

func (cfg *NotaryConfig) InitDefaults() {
	if cfg.Retention.Duration == 0 {
		cfg.Retention.Duration = DefaultRetention
	}
	if cfg.MaxFingerprints == 0 {
		cfg.MaxFingerprints = notary.DefaultMaxFingerprints
	}
	if cfg.FetchTimeout.Duration == 0 {
		cfg.FetchTimeout.Duration = DefaultFetchTimeout
	}
}

func (cfg *NotaryConfig) Validate() error {
	if cfg.Retention.Duration <= 0 {
		return serrors.New("retention must be positive", "retention", cfg.Retention)
	}
	if cfg.MaxFingerprints <= 0 {
		return serrors.New("max_fingerprints must be positive",
			"max_fingerprints", cfg.MaxFingerprints)
	}
	if cfg.FetchTimeout.Duration <= 0 {
		return serrors.New("fetch_timeout must be positive",
			"fetch_timeout", cfg.FetchTimeout)
	}
	return nil
}

func (cfg *NotaryConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, notarySample)
}

func (cfg *NotaryConfig) ConfigName() string {
	return "notary"
}

var _ config.Config = (*API)(nil)

// API holds the HTTP API configuration.
type API struct {
	config.NoValidator
	// Addr is the address the HTTP API listens on.
	Addr string `toml:"addr,omitempty"`
}

func (cfg *API) InitDefaults() {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAPIAddr
	}
}

func (cfg *API) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, apiSample)
}

func (cfg *API) ConfigName() string {
	return "api"
}
