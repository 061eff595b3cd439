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

// Package fetcher obtains the certificate fingerprints a live host presents.
// The notary observes certificates independently of the client; it performs
// no chain validation, since fingerprint equality is the only trust signal
// this protocol family interprets.
package fetcher

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/scionproto/notary/pkg/private/serrors"
)

// DefaultTimeout bounds the dial plus handshake of a single fetch.
const DefaultTimeout = 10 * time.Second

// TLS fetches fingerprints by completing a TLS handshake with the target
// host.
type TLS struct {
	// Timeout bounds the fetch, defaults to DefaultTimeout. A fetch that
	// exceeds it is indistinguishable from a host that presents no
	// certificates.
	Timeout time.Duration
}

// Fingerprints connects to the host named by rawURL and returns the
// fingerprints of the presented certificate chain, leaf first.
func (f *TLS) Fingerprints(ctx context.Context, rawURL string) ([]string, error) {
	address, serverName, err := targetAddress(rawURL)
	if err != nil {
		return nil, err
	}
	timeout := f.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			ServerName: serverName,
			// The notary records what the host presents; validation against
			// a CA set would defeat its purpose.
			InsecureSkipVerify: true,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, serrors.Wrap("tls handshake", err, "address", address)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	fingerprints := make([]string, 0, len(certs))
	for _, cert := range certs {
		fingerprints = append(fingerprints, Fingerprint(cert))
	}
	return fingerprints, nil
}

// Fingerprint renders the SHA-256 digest of the DER-encoded certificate as
// colon-separated uppercase hex.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	raw := strings.ToUpper(hex.EncodeToString(sum[:]))
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(raw[i : i+2])
	}
	return b.String()
}

// targetAddress derives the dial address and TLS server name from the
// verification url. A bare host is accepted; the scheme defaults to https
// and the port to 443.
func targetAddress(rawURL string) (address, serverName string, err error) {
	in := rawURL
	if !strings.Contains(in, "://") {
		in = "https://" + in
	}
	u, err := url.Parse(in)
	if err != nil || u.Hostname() == "" {
		return "", "", serrors.New("invalid target url", "url", rawURL)
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), u.Hostname(), nil
}
