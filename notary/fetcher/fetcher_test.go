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

package fetcher

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintsFromLiveHost(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer ts.Close()

	f := &TLS{}
	fingerprints, err := f.Fingerprints(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, fingerprints, 1)
	assert.Equal(t, Fingerprint(ts.Certificate()), fingerprints[0])
}

func TestFingerprintFormat(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer ts.Close()

	fp := Fingerprint(ts.Certificate())
	// 32 uppercase hex pairs separated by colons.
	assert.Regexp(t, regexp.MustCompile(`^([0-9A-F]{2}:){31}[0-9A-F]{2}$`), fp)
}

func TestFingerprintsTimeout(t *testing.T) {
	// A listener that accepts but never completes the handshake.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	f := &TLS{Timeout: 100 * time.Millisecond}
	_, err = f.Fingerprints(context.Background(), "https://"+l.Addr().String())
	assert.Error(t, err)
}

func TestTargetAddress(t *testing.T) {
	cases := map[string]struct {
		url        string
		address    string
		serverName string
		assertErr  assert.ErrorAssertionFunc
	}{
		"https url": {
			url:        "https://bank.example",
			address:    "bank.example:443",
			serverName: "bank.example",
			assertErr:  assert.NoError,
		},
		"bare host": {
			url:        "bank.example",
			address:    "bank.example:443",
			serverName: "bank.example",
			assertErr:  assert.NoError,
		},
		"explicit port": {
			url:        "https://bank.example:8443",
			address:    "bank.example:8443",
			serverName: "bank.example",
			assertErr:  assert.NoError,
		},
		"empty": {
			url:       "",
			assertErr: assert.Error,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			address, serverName, err := targetAddress(tc.url)
			tc.assertErr(t, err)
			assert.Equal(t, tc.address, address)
			assert.Equal(t, tc.serverName, serverName)
		})
	}
}
