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

// Package trust defines the persistent trust store of the notary. The store
// owns two sets: the trusted cache of (url, fingerprint) pairs with insertion
// timestamps, and the blacklist of urls that are denied trust regardless of
// cache contents.
package trust

import (
	"context"
	"time"
)

// Record is one cached trust observation. Multiple records may share a url;
// the (url, fingerprint) pair is unique.
type Record struct {
	URL         string
	Fingerprint string
	RecordedAt  time.Time
}

// ReadDB is the read-only part of the trust store. A failure to reach the
// backing store surfaces as an error and is never conflated with a negative
// answer.
type ReadDB interface {
	// IsBlacklisted reports whether url is currently blacklisted.
	IsBlacklisted(ctx context.Context, url string) (bool, error)
	// IsTrusted reports whether a trust record for (url, fingerprint) exists
	// that was recorded at notBefore or later. Older records are expired and
	// never reported as trusted.
	IsTrusted(ctx context.Context, url, fingerprint string, notBefore time.Time) (bool, error)
	// TrustedRecords returns all non-expired records for url.
	TrustedRecords(ctx context.Context, url string, notBefore time.Time) ([]Record, error)
	// Blacklist returns all blacklisted urls.
	Blacklist(ctx context.Context) ([]string, error)
}

// WriteDB is the mutating part of the trust store.
type WriteDB interface {
	// ReplaceTrusted atomically deletes all trust records for url and inserts
	// one record per fingerprint, stamped with the current time. A concurrent
	// reader sees either the pre-image or the post-image, never a partial
	// set.
	ReplaceTrusted(ctx context.Context, url string, fingerprints []string) error
	// InsertBlacklist adds url to the blacklist. Inserting an already present
	// url succeeds silently.
	InsertBlacklist(ctx context.Context, url string) error
	// RemoveBlacklist removes url from the blacklist. Removing an absent url
	// succeeds silently.
	RemoveBlacklist(ctx context.Context, url string) error
	// DeleteExpired deletes all trust records recorded before cutoff and
	// returns the number of deleted records.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}

// DB is the interface the trust store backends have to implement.
type DB interface {
	ReadDB
	WriteDB
}
