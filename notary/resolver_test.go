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

package notary_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/notary/notary"
	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/private/storage/trust"
)

func TestClassifyBlacklistPrecedence(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	require.NoError(t, db.InsertBlacklist(ctx, "https://evil.example"))
	require.NoError(t, db.ReplaceTrusted(ctx, "https://evil.example", []string{"AA:BB"}))
	r := &notary.Resolver{DB: db, Retention: 24 * time.Hour}

	class, err := r.Classify(ctx, "https://evil.example", "AA:BB")
	require.NoError(t, err)
	assert.Equal(t, notary.ClassBlacklisted, class,
		"blacklist membership takes precedence over the trusted cache")
}

func TestClassifyExpiredRecordIsMiss(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	db.trusted["https://stale.example"] = []trust.Record{{
		URL:         "https://stale.example",
		Fingerprint: "AA:BB",
		RecordedAt:  time.Now().Add(-25 * time.Hour),
	}}
	r := &notary.Resolver{DB: db, Retention: 24 * time.Hour}

	class, err := r.Classify(ctx, "https://stale.example", "AA:BB")
	require.NoError(t, err)
	assert.Equal(t, notary.ClassMiss, class)
}

func TestClassifyNoFingerprintIsMiss(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()
	require.NoError(t, db.ReplaceTrusted(ctx, "https://bank.example", []string{"AA:BB"}))
	r := &notary.Resolver{DB: db, Retention: 24 * time.Hour}

	class, err := r.Classify(ctx, "https://bank.example", "")
	require.NoError(t, err)
	assert.Equal(t, notary.ClassMiss, class)
}

func TestClassifyStoreError(t *testing.T) {
	db := newFakeDB()
	db.readErr = serrors.New("store unavailable")
	r := &notary.Resolver{DB: db, Retention: 24 * time.Hour}

	_, err := r.Classify(context.Background(), "https://bank.example", "AA:BB")
	assert.ErrorIs(t, err, db.readErr)
}
