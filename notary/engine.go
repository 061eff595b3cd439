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

package notary

import (
	"context"
	"strings"

	"github.com/scionproto/notary/pkg/log"
	"github.com/scionproto/notary/pkg/metrics"
	"github.com/scionproto/notary/pkg/private/serrors"
)

// Fetcher obtains the certificate fingerprints a host currently presents.
type Fetcher interface {
	// Fingerprints returns the ordered fingerprints of the certificate chain
	// the host presents. An empty set or an error both mean the fetch
	// failed; the engine does not distinguish failure subtypes.
	Fingerprints(ctx context.Context, url string) ([]string, error)
}

// Metrics contains the counters the engine reports.
type Metrics struct {
	// Verdicts counts decided requests, one counter per verdict.
	Trusted     metrics.Counter
	Verified    metrics.Counter
	Conflict    metrics.Counter
	Blacklisted metrics.Counter
	FetchFailed metrics.Counter
	// StoreErrors counts requests aborted because the trust store was
	// unreachable during a read.
	StoreErrors metrics.Counter
	// RefreshErrors counts cache writes that failed after a successful
	// fetch.
	RefreshErrors metrics.Counter
}

// Engine orchestrates the cache resolver, the certificate fetcher, the
// fingerprint comparison and the trust updater to produce a decision.
type Engine struct {
	Resolver *Resolver
	Updater  *Updater
	Fetcher  Fetcher
	Metrics  Metrics
}

// Decide produces the trust decision for a url and an optional client
// fingerprint. An error is returned only when the trust store cannot be read;
// reads fail closed because trust cannot be established safely without the
// blacklist. A failed cache write after a successful fetch is logged and
// counted but does not fail the decision; it only degrades future cache
// hits.
func (e *Engine) Decide(ctx context.Context, url, clientFP string) (Decision, error) {
	clientFP = strings.TrimSpace(clientFP)
	logger := log.FromCtx(ctx)

	class, err := e.Resolver.Classify(ctx, url, clientFP)
	if err != nil {
		metrics.CounterInc(e.Metrics.StoreErrors)
		return Decision{}, serrors.Wrap("classifying request", err, "url", url)
	}
	switch class {
	case ClassBlacklisted:
		// The attestation rejects the client's claim; the fingerprint is
		// reported back unchanged.
		metrics.CounterInc(e.Metrics.Blacklisted)
		return Decision{Verdict: VerdictBlacklisted, Fingerprint: clientFP}, nil
	case ClassTrusted:
		metrics.CounterInc(e.Metrics.Trusted)
		return Decision{Verdict: VerdictTrusted, Fingerprint: clientFP}, nil
	}

	fetched, err := e.Fetcher.Fingerprints(ctx, url)
	if err != nil || len(fetched) == 0 {
		if err != nil {
			logger.Info("Certificate fetch failed", "url", url, "err", err)
		}
		metrics.CounterInc(e.Metrics.FetchFailed)
		return Decision{Verdict: VerdictFetchFailed}, nil
	}

	// The cache is refreshed from ground truth on every successful fetch,
	// independent of whether this client's claim matches. The refresh context
	// is detached so an aborted caller still populates the cache.
	if err := e.Updater.Refresh(context.WithoutCancel(ctx), url, fetched); err != nil {
		logger.Error("Trusted cache refresh failed", "url", url, "err", err)
		metrics.CounterInc(e.Metrics.RefreshErrors)
	}

	if clientFP == "" {
		// First contact, no claim to validate. Report the first observed
		// fingerprint.
		metrics.CounterInc(e.Metrics.Verified)
		return Decision{Verdict: VerdictVerified, Fingerprint: fetched[0]}, nil
	}
	for _, fp := range fetched {
		if fp == clientFP {
			metrics.CounterInc(e.Metrics.Verified)
			return Decision{Verdict: VerdictVerified, Fingerprint: clientFP}, nil
		}
	}
	// Mismatch. Offer the notary's own observation so the client can
	// compare.
	metrics.CounterInc(e.Metrics.Conflict)
	return Decision{Verdict: VerdictConflict, Fingerprint: fetched[0]}, nil
}
