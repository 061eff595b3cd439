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

package attestation

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/scionproto/notary/pkg/private/serrors"
)

// List of supported signature algorithms.
const (
	UnknownSignatureAlgorithm SignatureAlgorithm = iota
	ECDSAWithSHA256
	ECDSAWithSHA384
	ECDSAWithSHA512
)

type SignatureAlgorithm int

var signatureAlgorithmDetails = map[SignatureAlgorithm]struct {
	name string
	hash crypto.Hash
}{
	ECDSAWithSHA256: {name: "ECDSA-SHA256", hash: crypto.SHA256},
	ECDSAWithSHA384: {name: "ECDSA-SHA384", hash: crypto.SHA384},
	ECDSAWithSHA512: {name: "ECDSA-SHA512", hash: crypto.SHA512},
}

func (a SignatureAlgorithm) String() string {
	return signatureAlgorithmDetails[a].name
}

// Hash returns the digest algorithm the signature is computed over.
func (a SignatureAlgorithm) Hash() crypto.Hash {
	return signatureAlgorithmDetails[a].hash
}

// SelectSignatureAlgorithm selects the signature algorithm based on the public
// key algorithm.
func SelectSignatureAlgorithm(pub crypto.PublicKey) (SignatureAlgorithm, error) {
	switch p := pub.(type) {
	case *ecdsa.PublicKey:
		switch p.Curve {
		case elliptic.P256():
			return ECDSAWithSHA256, nil
		case elliptic.P384():
			return ECDSAWithSHA384, nil
		case elliptic.P521():
			return ECDSAWithSHA512, nil
		default:
			return 0, serrors.New("ecdsa: unsupported curve", "curve", p.Curve)
		}
	default:
		return 0, serrors.New("unsupported public key algorithm",
			"type", fmt.Sprintf("%T", pub))
	}
}

// Signer signs payloads. Implementations sign over the payload digest, never
// over the raw payload.
type Signer interface {
	// Sign computes the detached signature over the digest of the payload.
	Sign(payload []byte) ([]byte, error)
	// Algorithm identifies the signature algorithm Sign uses.
	Algorithm() SignatureAlgorithm
}

// KeySigner signs payload digests with a private key. The signature algorithm
// is derived from the public key at construction.
type KeySigner struct {
	key  crypto.Signer
	algo SignatureAlgorithm
}

// NewKeySigner builds a signer for the given private key.
func NewKeySigner(key crypto.Signer) (*KeySigner, error) {
	algo, err := SelectSignatureAlgorithm(key.Public())
	if err != nil {
		return nil, err
	}
	return &KeySigner{key: key, algo: algo}, nil
}

func (s *KeySigner) Algorithm() SignatureAlgorithm {
	return s.algo
}

func (s *KeySigner) Sign(payload []byte) ([]byte, error) {
	hash := s.algo.Hash()
	h := hash.New()
	h.Write(payload)
	signature, err := s.key.Sign(rand.Reader, h.Sum(nil), hash)
	if err != nil {
		return nil, serrors.Wrap("computing signature", err, "algorithm", s.algo)
	}
	return signature, nil
}

// Verify checks the detached signature over the payload digest against the
// public key. It is the inverse of KeySigner.Sign and is intended for clients
// and tests.
func Verify(pub crypto.PublicKey, payload, signature []byte) error {
	algo, err := SelectSignatureAlgorithm(pub)
	if err != nil {
		return err
	}
	h := algo.Hash().New()
	h.Write(payload)
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return serrors.New("unsupported public key algorithm",
			"type", fmt.Sprintf("%T", pub))
	}
	if !ecdsa.VerifyASN1(key, h.Sum(nil), signature) {
		return serrors.New("signature verification failed", "algorithm", algo)
	}
	return nil
}
