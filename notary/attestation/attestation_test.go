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

package attestation_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/notary/notary/attestation"
)

func TestBuildSigned(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signer, err := attestation.NewKeySigner(key)
	require.NoError(t, err)

	b := attestation.Builder{Signer: signer}
	start := time.Unix(1330000000, 0)
	finish := start.Add(2 * time.Second)
	fingerprint := "AB:CD:EF"

	att, err := b.Build(fingerprint, start, finish)
	require.NoError(t, err)

	assert.True(t, att.Signed())
	assert.Equal(t, "ECDSA-SHA256", att.Algorithm)
	assert.NoError(t, attestation.Verify(key.Public(), att.Raw, att.Signature))

	// Tampering must invalidate the signature.
	tampered := append([]byte{}, att.Raw...)
	tampered[len(tampered)-2] ^= 0xff
	assert.Error(t, attestation.Verify(key.Public(), tampered, att.Signature))
}

func TestBuildWireFormat(t *testing.T) {
	b := attestation.Builder{}
	att, err := b.Build("DE:AD:BE:EF", time.Unix(1330000000, 0), time.Unix(1330000002, 0))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(att.Raw, &payload))
	list, ok := payload["fingerprintList"].([]any)
	require.True(t, ok, "fingerprintList missing")
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "DE:AD:BE:EF", entry["fingerprint"])
	ts := entry["timestamp"].(map[string]any)
	assert.Equal(t, "1330000000", ts["start"])
	assert.Equal(t, "1330000002", ts["finish"])
}

func TestBuildDegradedUnsigned(t *testing.T) {
	b := attestation.Builder{}
	att, err := b.Build("AB:CD", time.Now(), time.Now())
	require.NoError(t, err)

	assert.False(t, att.Signed())
	assert.Empty(t, att.Algorithm)
	assert.NotEmpty(t, att.Raw)
}

func TestSelectSignatureAlgorithm(t *testing.T) {
	testCases := map[string]struct {
		curve     elliptic.Curve
		algorithm attestation.SignatureAlgorithm
	}{
		"P-256": {curve: elliptic.P256(), algorithm: attestation.ECDSAWithSHA256},
		"P-384": {curve: elliptic.P384(), algorithm: attestation.ECDSAWithSHA384},
		"P-521": {curve: elliptic.P521(), algorithm: attestation.ECDSAWithSHA512},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			key, err := ecdsa.GenerateKey(tc.curve, rand.Reader)
			require.NoError(t, err)
			algo, err := attestation.SelectSignatureAlgorithm(key.Public())
			require.NoError(t, err)
			assert.Equal(t, tc.algorithm, algo)
		})
	}
}
