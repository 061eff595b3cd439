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

	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/private/storage/trust"
)

// DefaultMaxFingerprints bounds how many fingerprints are cached per url. A
// host may legitimately present several certificates across its deployment.
const DefaultMaxFingerprints = 7

// Updater replaces the cached trusted set of a url with a freshly fetched
// fingerprint set.
type Updater struct {
	// DB is the trust store to update.
	DB trust.WriteDB
	// MaxFingerprints bounds the number of accepted fingerprints per url,
	// defaults to DefaultMaxFingerprints. Fetches returning more are
	// truncated.
	MaxFingerprints int
}

// Refresh replaces the trusted set for url. The empty set is rejected: a
// fetch without fingerprints is a fetch failure and must not erase existing
// trust.
func (u *Updater) Refresh(ctx context.Context, url string, fingerprints []string) error {
	if len(fingerprints) == 0 {
		return serrors.New("refusing to replace trusted set with empty fetch", "url", url)
	}
	if max := u.maxFingerprints(); len(fingerprints) > max {
		fingerprints = fingerprints[:max]
	}
	if err := u.DB.ReplaceTrusted(ctx, url, fingerprints); err != nil {
		return serrors.Wrap("replacing trusted set", err,
			"url", url, "fingerprints", len(fingerprints))
	}
	return nil
}

func (u *Updater) maxFingerprints() int {
	if u.MaxFingerprints > 0 {
		return u.MaxFingerprints
	}
	return DefaultMaxFingerprints
}
