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

// Package mgmtapi exposes the notary over HTTP: the verification endpoint
// used by clients and the blacklist administration endpoints.
package mgmtapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/scionproto/notary/notary"
	"github.com/scionproto/notary/notary/attestation"
	"github.com/scionproto/notary/pkg/log"
	"github.com/scionproto/notary/pkg/private/serrors"
	truststorage "github.com/scionproto/notary/private/storage/trust"
)

var errEmptyParam = serrors.New("empty path parameter")

// Response headers carrying the detached signature. The signature is kept out
// of the payload so that the signed bytes are exactly the response body.
const (
	SignatureHeader          = "X-Notary-Signature"
	SignatureAlgorithmHeader = "X-Notary-Signature-Algorithm"
	UnsignedHeader           = "X-Notary-Unsigned"
)

// Server implements the HTTP API.
type Server struct {
	// Engine decides trust for verification requests.
	Engine *notary.Engine
	// Attestations builds the response payloads.
	Attestations *attestation.Builder
	// DB is the trust store used for blacklist administration.
	DB truststorage.DB
	// Now is the time source, defaults to time.Now.
	Now func() time.Time
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
	}))
	r.Post("/verify/{target}", s.verify)
	r.Get("/blacklist", s.listBlacklist)
	r.Put("/blacklist/{url}", s.insertBlacklist)
	r.Delete("/blacklist/{url}", s.removeBlacklist)
	return r
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())
	target, err := pathParam(r, "target")
	if err != nil {
		http.Error(w, "malformed target", http.StatusBadRequest)
		return
	}
	fingerprint := r.FormValue("fingerprint")

	start := s.now()
	decision, err := s.Engine.Decide(r.Context(), target, fingerprint)
	finish := s.now()
	if err != nil {
		logger.Error("Verification failed", "target", target, "err", err)
		http.Error(w, "trust store unavailable", http.StatusInternalServerError)
		return
	}
	if !decision.Verdict.Attestable() {
		w.WriteHeader(decision.Verdict.StatusCode())
		return
	}
	att, err := s.Attestations.Build(decision.Fingerprint, start, finish)
	if err != nil {
		logger.Error("Building attestation failed", "target", target, "err", err)
		http.Error(w, "building attestation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if att.Signed() {
		w.Header().Set(SignatureHeader, base64.StdEncoding.EncodeToString(att.Signature))
		w.Header().Set(SignatureAlgorithmHeader, att.Algorithm)
	} else {
		w.Header().Set(UnsignedHeader, "true")
	}
	w.WriteHeader(decision.Verdict.StatusCode())
	if _, err := w.Write(att.Raw); err != nil {
		logger.Debug("Writing response failed", "target", target, "err", err)
	}
}

func (s *Server) listBlacklist(w http.ResponseWriter, r *http.Request) {
	urls, err := s.DB.Blacklist(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error("Listing blacklist failed", "err", err)
		http.Error(w, "trust store unavailable", http.StatusInternalServerError)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"blacklist": urls}); err != nil {
		log.FromCtx(r.Context()).Debug("Writing response failed", "err", err)
	}
}

func (s *Server) insertBlacklist(w http.ResponseWriter, r *http.Request) {
	s.updateBlacklist(w, r, s.DB.InsertBlacklist)
}

func (s *Server) removeBlacklist(w http.ResponseWriter, r *http.Request) {
	s.updateBlacklist(w, r, s.DB.RemoveBlacklist)
}

func (s *Server) updateBlacklist(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, url string) error,
) {

	target, err := pathParam(r, "url")
	if err != nil {
		http.Error(w, "malformed url", http.StatusBadRequest)
		return
	}
	if err := update(r.Context(), target); err != nil {
		log.FromCtx(r.Context()).Error("Updating blacklist failed", "url", target, "err", err)
		http.Error(w, "trust store unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathParam extracts and unescapes the named path parameter. Targets are full
// urls and arrive percent-encoded in the path segment.
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", errEmptyParam
	}
	return value, nil
}
