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

package config

const generalSample = `
# The ID of the service instance, used in logs and metrics. (default "notary")
id = "notary"
`

const metricsSample = `
# The address to expose the prometheus metrics endpoint on. If not set,
# metrics are not exposed. (e.g. "127.0.0.1:9090")
prometheus = ""
`

const notarySample = `
# Maximum age of a cached trust record. Records older than this are treated
# as absent on reads and reaped periodically. (default "24h")
retention = "24h"

# Maximum number of fingerprints cached per url. A fetched set larger than
# this is truncated. (default 7)
max_fingerprints = 7

# Timeout for fetching the certificate chain from the target, handshake
# included. A fetch that does not complete in time counts as failed.
# (default "10s")
fetch_timeout = "10s"

# Path to the PEM-encoded PKCS#8 private key used to sign attestations. If
# not set, the service runs unsigned and flags responses accordingly.
key = ""
`

const apiSample = `
# The address the HTTP API listens on. (default ":8080")
addr = ":8080"
`
