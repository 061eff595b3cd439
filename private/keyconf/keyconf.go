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

// Package keyconf loads private signing keys from the file system.
package keyconf

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/scionproto/notary/pkg/private/serrors"
)

// LoadPrivateKey loads and parses a PEM-encoded PKCS#8 private key from file.
// The returned key implements crypto.Signer.
func LoadPrivateKey(file string) (crypto.Signer, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, serrors.Wrap("reading private key", err, "file", file)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, serrors.New("no PEM block found", "file", file)
	}
	if block.Type != "PRIVATE KEY" {
		return nil, serrors.New("unsupported PEM block type",
			"type", block.Type, "file", file)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, serrors.Wrap("parsing PKCS#8 private key", err, "file", file)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, serrors.New("key type does not support signing", "file", file)
	}
	return signer, nil
}
