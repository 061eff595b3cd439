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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/notary/notary"
)

func TestRefreshRejectsEmptySet(t *testing.T) {
	db := newFakeDB()
	require.NoError(t, db.ReplaceTrusted(context.Background(), "https://a.example",
		[]string{"AA:BB"}))
	u := &notary.Updater{DB: db}

	err := u.Refresh(context.Background(), "https://a.example", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"AA:BB"}, fingerprints(t, db, "https://a.example"),
		"existing trust must not be erased by an empty fetch")
}

func TestRefreshTruncates(t *testing.T) {
	db := newFakeDB()
	u := &notary.Updater{DB: db, MaxFingerprints: 2}

	require.NoError(t, u.Refresh(context.Background(), "https://a.example",
		[]string{"00", "01", "02"}))
	assert.Equal(t, []string{"00", "01"}, fingerprints(t, db, "https://a.example"))
}

func TestRefreshReplaces(t *testing.T) {
	db := newFakeDB()
	u := &notary.Updater{DB: db}
	ctx := context.Background()

	require.NoError(t, u.Refresh(ctx, "https://a.example", []string{"AA:BB", "CC:DD"}))
	require.NoError(t, u.Refresh(ctx, "https://a.example", []string{"EE:FF"}))
	assert.Equal(t, []string{"EE:FF"}, fingerprints(t, db, "https://a.example"))
}
