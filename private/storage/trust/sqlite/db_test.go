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

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/notary/private/storage/trust/sqlite"
)

func newBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.New(filepath.Join(t.TempDir(), "trust.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestReplaceTrustedNoStaleSurvivors(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	url := "https://bank.example"
	longAgo := time.Now().Add(-time.Hour)

	require.NoError(t, b.ReplaceTrusted(ctx, url, []string{"AA:BB", "CC:DD"}))
	require.NoError(t, b.ReplaceTrusted(ctx, url, []string{"CC:DD", "EE:FF"}))

	trusted, err := b.IsTrusted(ctx, url, "AA:BB", longAgo)
	require.NoError(t, err)
	assert.False(t, trusted, "fingerprint from the first fetch must not survive")

	for _, fp := range []string{"CC:DD", "EE:FF"} {
		trusted, err := b.IsTrusted(ctx, url, fp, longAgo)
		require.NoError(t, err)
		assert.True(t, trusted, "fingerprint %s", fp)
	}

	records, err := b.TrustedRecords(ctx, url, longAgo)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "CC:DD", records[0].Fingerprint)
	assert.Equal(t, "EE:FF", records[1].Fingerprint)
}

func TestReplaceTrustedScopedToURL(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	longAgo := time.Now().Add(-time.Hour)

	require.NoError(t, b.ReplaceTrusted(ctx, "https://a.example", []string{"AA:AA"}))
	require.NoError(t, b.ReplaceTrusted(ctx, "https://b.example", []string{"BB:BB"}))

	trusted, err := b.IsTrusted(ctx, "https://a.example", "AA:AA", longAgo)
	require.NoError(t, err)
	assert.True(t, trusted, "replace for b.example must not touch a.example")
}

func TestReplaceTrustedDuplicateFingerprints(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	url := "https://dup.example"

	require.NoError(t, b.ReplaceTrusted(ctx, url, []string{"AA:BB", "AA:BB"}))
	records, err := b.TrustedRecords(ctx, url, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestIsTrustedExpiry(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	url := "https://old.example"

	require.NoError(t, b.ReplaceTrusted(ctx, url, []string{"AA:BB"}))

	// Cutoff in the future expires everything recorded now.
	trusted, err := b.IsTrusted(ctx, url, "AA:BB", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, trusted)
}

func TestBlacklistIdempotence(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	url := "https://evil.example"

	require.NoError(t, b.InsertBlacklist(ctx, url))
	require.NoError(t, b.InsertBlacklist(ctx, url))

	blacklisted, err := b.IsBlacklisted(ctx, url)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	urls, err := b.Blacklist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, urls)

	require.NoError(t, b.RemoveBlacklist(ctx, url))
	require.NoError(t, b.RemoveBlacklist(ctx, url))

	blacklisted, err = b.IsBlacklisted(ctx, url)
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestDeleteExpired(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	require.NoError(t, b.ReplaceTrusted(ctx, "https://a.example", []string{"AA:AA", "AB:AB"}))
	require.NoError(t, b.ReplaceTrusted(ctx, "https://b.example", []string{"BB:BB"}))

	deleted, err := b.DeleteExpired(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	records, err := b.TrustedRecords(ctx, "https://a.example", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, records)

	deleted, err = b.DeleteExpired(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
