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

package mgmtapi_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/notary/notary"
	"github.com/scionproto/notary/notary/attestation"
	"github.com/scionproto/notary/notary/mgmtapi"
	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/private/storage/trust"
)

const (
	fpClient = "AA:BB:CC"
	fpServer = "DD:EE:FF"
)

type fakeDB struct {
	trusted     map[string][]trust.Record
	blacklisted map[string]bool
	readErr     error
	writeErr    error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		trusted:     make(map[string][]trust.Record),
		blacklisted: make(map[string]bool),
	}
}

func (db *fakeDB) IsBlacklisted(_ context.Context, url string) (bool, error) {
	return db.blacklisted[url], db.readErr
}

func (db *fakeDB) IsTrusted(_ context.Context, url, fp string, notBefore time.Time) (bool, error) {
	if db.readErr != nil {
		return false, db.readErr
	}
	for _, r := range db.trusted[url] {
		if r.Fingerprint == fp && !r.RecordedAt.Before(notBefore) {
			return true, nil
		}
	}
	return false, nil
}

func (db *fakeDB) TrustedRecords(_ context.Context, url string,
	notBefore time.Time) ([]trust.Record, error) {

	return db.trusted[url], db.readErr
}

func (db *fakeDB) Blacklist(_ context.Context) ([]string, error) {
	if db.readErr != nil {
		return nil, db.readErr
	}
	var urls []string
	for url := range db.blacklisted {
		urls = append(urls, url)
	}
	return urls, nil
}

func (db *fakeDB) ReplaceTrusted(_ context.Context, url string, fps []string) error {
	if db.writeErr != nil {
		return db.writeErr
	}
	records := make([]trust.Record, 0, len(fps))
	for _, fp := range fps {
		records = append(records, trust.Record{
			URL: url, Fingerprint: fp, RecordedAt: time.Now(),
		})
	}
	db.trusted[url] = records
	return nil
}

func (db *fakeDB) InsertBlacklist(_ context.Context, url string) error {
	if db.writeErr != nil {
		return db.writeErr
	}
	db.blacklisted[url] = true
	return nil
}

func (db *fakeDB) RemoveBlacklist(_ context.Context, url string) error {
	if db.writeErr != nil {
		return db.writeErr
	}
	delete(db.blacklisted, url)
	return nil
}

func (db *fakeDB) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	return 0, db.writeErr
}

type fakeFetcher struct {
	fingerprints []string
	err          error
}

func (f *fakeFetcher) Fingerprints(context.Context, string) ([]string, error) {
	return f.fingerprints, f.err
}

func newServer(t *testing.T, db *fakeDB, fetcher notary.Fetcher) (*httptest.Server, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signer, err := attestation.NewKeySigner(key)
	require.NoError(t, err)

	s := &mgmtapi.Server{
		Engine: &notary.Engine{
			Resolver: &notary.Resolver{DB: db, Retention: 24 * time.Hour},
			Updater:  &notary.Updater{DB: db},
			Fetcher:  fetcher,
		},
		Attestations: &attestation.Builder{Signer: signer},
		DB:           db,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, key
}

func verifyURL(ts *httptest.Server, target, fingerprint string) string {
	u := ts.URL + "/verify/" + url.PathEscape(target)
	if fingerprint != "" {
		u += "?fingerprint=" + url.QueryEscape(fingerprint)
	}
	return u
}

func decodePayload(t *testing.T, resp *http.Response) attestation.Payload {
	t.Helper()
	var payload attestation.Payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestVerify(t *testing.T) {
	target := "https://example.com"

	t.Run("verified and signed", func(t *testing.T) {
		db := newFakeDB()
		ts, _ := newServer(t, db, &fakeFetcher{fingerprints: []string{fpClient}})

		resp, err := http.Post(verifyURL(ts, target, fpClient), "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(mgmtapi.SignatureHeader))
		assert.Equal(t, "ECDSA-SHA256", resp.Header.Get(mgmtapi.SignatureAlgorithmHeader))
		assert.Empty(t, resp.Header.Get(mgmtapi.UnsignedHeader))

		payload := decodePayload(t, resp)
		require.Len(t, payload.FingerprintList, 1)
		assert.Equal(t, fpClient, payload.FingerprintList[0].Fingerprint)
	})

	t.Run("conflict reports observed fingerprint", func(t *testing.T) {
		db := newFakeDB()
		ts, _ := newServer(t, db, &fakeFetcher{fingerprints: []string{fpServer}})

		resp, err := http.Post(verifyURL(ts, target, fpClient), "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		payload := decodePayload(t, resp)
		require.Len(t, payload.FingerprintList, 1)
		assert.Equal(t, fpServer, payload.FingerprintList[0].Fingerprint)
	})

	t.Run("blacklisted", func(t *testing.T) {
		db := newFakeDB()
		db.blacklisted[target] = true
		fetcher := &fakeFetcher{fingerprints: []string{fpClient}}
		ts, _ := newServer(t, db, fetcher)

		resp, err := http.Post(verifyURL(ts, target, fpClient), "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("fetch failed", func(t *testing.T) {
		db := newFakeDB()
		ts, _ := newServer(t, db, &fakeFetcher{err: serrors.New("dial timeout")})

		resp, err := http.Post(verifyURL(ts, target, fpClient), "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(mgmtapi.SignatureHeader))
	})

	t.Run("store error", func(t *testing.T) {
		db := newFakeDB()
		db.readErr = serrors.New("disk gone")
		ts, _ := newServer(t, db, &fakeFetcher{fingerprints: []string{fpClient}})

		resp, err := http.Post(verifyURL(ts, target, fpClient), "", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestVerifySignature(t *testing.T) {
	db := newFakeDB()
	ts, key := newServer(t, db, &fakeFetcher{fingerprints: []string{fpClient}})

	resp, err := http.Post(verifyURL(ts, "https://example.com", fpClient), "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	sig, err := base64.StdEncoding.DecodeString(resp.Header.Get(mgmtapi.SignatureHeader))
	require.NoError(t, err)
	assert.NoError(t, attestation.Verify(key.Public(), raw, sig))
}

func TestVerifyUnsigned(t *testing.T) {
	db := newFakeDB()
	s := &mgmtapi.Server{
		Engine: &notary.Engine{
			Resolver: &notary.Resolver{DB: db, Retention: 24 * time.Hour},
			Updater:  &notary.Updater{DB: db},
			Fetcher:  &fakeFetcher{fingerprints: []string{fpClient}},
		},
		Attestations: &attestation.Builder{},
		DB:           db,
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(verifyURL(ts, "https://example.com", fpClient), "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get(mgmtapi.UnsignedHeader))
	assert.Empty(t, resp.Header.Get(mgmtapi.SignatureHeader))
}

func TestBlacklistAdmin(t *testing.T) {
	db := newFakeDB()
	ts, _ := newServer(t, db, &fakeFetcher{})
	client := ts.Client()
	target := "https://revoked.example.com"

	do := func(method, url string) *http.Response {
		req, err := http.NewRequest(method, url, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	blacklistURL := ts.URL + "/blacklist/" + url.PathEscape(target)

	// Insert, twice to check idempotence.
	assert.Equal(t, http.StatusNoContent, do(http.MethodPut, blacklistURL).StatusCode)
	assert.Equal(t, http.StatusNoContent, do(http.MethodPut, blacklistURL).StatusCode)

	resp, err := client.Get(ts.URL + "/blacklist")
	require.NoError(t, err)
	var listing map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	resp.Body.Close()
	assert.Equal(t, []string{target}, listing["blacklist"])

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, blacklistURL).StatusCode)
	assert.False(t, db.blacklisted[target])
}
