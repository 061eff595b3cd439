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

// Package attestation builds the auditable artifact returned to callers: the
// canonical response payload plus a detached signature over its digest. The
// payload field names and nesting are part of the wire contract of this
// protocol family and must be preserved exactly.
package attestation

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/scionproto/notary/pkg/private/serrors"
)

// Timestamp bounds the request processing interval. The values are Unix
// seconds rendered as decimal strings, as existing clients of this protocol
// family expect.
type Timestamp struct {
	Start  string `json:"start"`
	Finish string `json:"finish"`
}

// Entry is one attested fingerprint observation.
type Entry struct {
	Timestamp   Timestamp `json:"timestamp"`
	Fingerprint string    `json:"fingerprint"`
}

// Payload is the canonical response payload.
type Payload struct {
	FingerprintList []Entry `json:"fingerprintList"`
}

// Attestation is the artifact returned to the transport layer. When signing
// is unavailable the signature is absent and the attestation is explicitly
// degraded; callers that require signatures can reject it.
type Attestation struct {
	// Raw is the encoded canonical payload.
	Raw []byte
	// Signature is the detached signature over the payload digest, nil in
	// degraded mode.
	Signature []byte
	// Algorithm names the signature algorithm, empty in degraded mode.
	Algorithm string
}

// Signed reports whether the attestation carries a signature.
func (a Attestation) Signed() bool {
	return len(a.Signature) > 0
}

// Builder builds attestations.
type Builder struct {
	// Signer signs payload digests. A nil signer degrades all built
	// attestations to unsigned.
	Signer Signer
}

// Build encodes the canonical payload for the reported fingerprint and the
// request interval, and signs it if a signer is available. Signing failures
// are not fatal either: verification data is still useful to the caller
// unsigned.
func (b *Builder) Build(fingerprint string, start, finish time.Time) (Attestation, error) {
	payload := Payload{
		FingerprintList: []Entry{{
			Timestamp: Timestamp{
				Start:  strconv.FormatInt(start.Unix(), 10),
				Finish: strconv.FormatInt(finish.Unix(), 10),
			},
			Fingerprint: fingerprint,
		}},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Attestation{}, serrors.Wrap("encoding payload", err)
	}
	att := Attestation{Raw: raw}
	if b.Signer == nil {
		return att, nil
	}
	signature, err := b.Signer.Sign(raw)
	if err != nil {
		return Attestation{}, serrors.Wrap("signing payload", err)
	}
	att.Signature = signature
	att.Algorithm = b.Signer.Algorithm().String()
	return att, nil
}
