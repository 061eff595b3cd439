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
	"time"

	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/private/storage/trust"
)

// Classification is the cache resolver's tagged result. A store failure is
// reported as a separate error and never as a classification, so that callers
// cannot mistake "store error" for "not trusted".
type Classification int

const (
	// ClassMiss indicates neither blacklist nor trusted cache matched.
	ClassMiss Classification = iota
	// ClassTrusted indicates a non-expired (url, fingerprint) cache hit.
	ClassTrusted
	// ClassBlacklisted indicates the url is blacklisted.
	ClassBlacklisted
)

func (c Classification) String() string {
	switch c {
	case ClassMiss:
		return "miss"
	case ClassTrusted:
		return "trusted"
	case ClassBlacklisted:
		return "blacklisted"
	default:
		return "unknown"
	}
}

// Resolver classifies a (url, client fingerprint) pair against the trust
// store. The blacklist takes precedence: a url can never be trusted once
// blacklisted.
type Resolver struct {
	// DB is the trust store to resolve against.
	DB trust.ReadDB
	// Retention is how long a trust record satisfies lookups after it was
	// recorded.
	Retention time.Duration
	// Now is the time source, defaults to time.Now.
	Now func() time.Time
}

// Classify resolves the pair. If no client fingerprint is supplied there is
// nothing to match against and the result is a miss, unless the url is
// blacklisted.
func (r *Resolver) Classify(ctx context.Context, url, fingerprint string) (Classification, error) {
	blacklisted, err := r.DB.IsBlacklisted(ctx, url)
	if err != nil {
		return 0, serrors.Wrap("blacklist lookup", err, "url", url)
	}
	if blacklisted {
		return ClassBlacklisted, nil
	}
	if fingerprint == "" {
		return ClassMiss, nil
	}
	trusted, err := r.DB.IsTrusted(ctx, url, fingerprint, r.now().Add(-r.Retention))
	if err != nil {
		return 0, serrors.Wrap("trusted cache lookup", err, "url", url)
	}
	if trusted {
		return ClassTrusted, nil
	}
	return ClassMiss, nil
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
