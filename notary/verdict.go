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

// Package notary implements the trust decision engine. Given a url and the
// certificate fingerprint a client observed, the engine consults the
// persistent trust cache and, on a cache miss, a fresh certificate fetch, and
// produces a verdict plus the fingerprint to report back to the client.
package notary

import (
	"net/http"
)

// Verdict is the engine's classification of a verification request.
type Verdict int

const (
	// VerdictTrusted indicates the client fingerprint matched the trust
	// cache.
	VerdictTrusted Verdict = iota
	// VerdictVerified indicates the client fingerprint matched a freshly
	// fetched fingerprint set, or that no client fingerprint was supplied
	// (first contact).
	VerdictVerified
	// VerdictConflict indicates the client fingerprint did not match the
	// freshly fetched fingerprint set.
	VerdictConflict
	// VerdictBlacklisted indicates the url is explicitly denied trust.
	VerdictBlacklisted
	// VerdictFetchFailed indicates no fingerprints could be obtained from
	// the target host.
	VerdictFetchFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictTrusted:
		return "trusted"
	case VerdictVerified:
		return "verified"
	case VerdictConflict:
		return "conflict"
	case VerdictBlacklisted:
		return "blacklisted"
	case VerdictFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// StatusCode maps the verdict to the transport status code. The mapping is
// part of the wire contract.
func (v Verdict) StatusCode() int {
	switch v {
	case VerdictTrusted, VerdictVerified:
		return http.StatusOK
	case VerdictConflict, VerdictBlacklisted:
		return http.StatusConflict
	case VerdictFetchFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Attestable reports whether the verdict carries a fingerprint worth
// attesting. A failed fetch produces no attestation; the caller must retry
// later.
func (v Verdict) Attestable() bool {
	return v != VerdictFetchFailed
}

// Decision is the outcome of a verification request. Fingerprint is the
// value reported back to the client: the client's own claim when it was
// accepted or rejected by the blacklist, the notary's own observation
// otherwise.
type Decision struct {
	Verdict     Verdict
	Fingerprint string
}
