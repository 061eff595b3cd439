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

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/scionproto/notary/notary"
	"github.com/scionproto/notary/notary/attestation"
	"github.com/scionproto/notary/notary/config"
	"github.com/scionproto/notary/notary/fetcher"
	"github.com/scionproto/notary/notary/mgmtapi"
	"github.com/scionproto/notary/pkg/log"
	libmetrics "github.com/scionproto/notary/pkg/metrics"
	"github.com/scionproto/notary/pkg/private/serrors"
	"github.com/scionproto/notary/private/app/launcher"
	"github.com/scionproto/notary/private/keyconf"
	"github.com/scionproto/notary/private/periodic"
	"github.com/scionproto/notary/private/storage"
	"github.com/scionproto/notary/private/storage/cleaner"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "Certificate Trust Notary",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	trustDB, err := storage.NewTrustStorage(globalCfg.TrustDB)
	if err != nil {
		return serrors.Wrap("initializing trust storage", err)
	}
	defer trustDB.Close()

	builder := &attestation.Builder{}
	if file := globalCfg.Notary.Key; file != "" {
		key, err := keyconf.LoadPrivateKey(file)
		if err != nil {
			return serrors.Wrap("loading signing key", err, "file", file)
		}
		signer, err := attestation.NewKeySigner(key)
		if err != nil {
			return serrors.Wrap("initializing signer", err, "file", file)
		}
		builder.Signer = signer
		log.Info("Attestation signing enabled", "algorithm", signer.Algorithm())
	} else {
		log.Info("No signing key configured, attestations are unsigned")
	}

	retention := globalCfg.Notary.Retention.Duration
	engine := &notary.Engine{
		Resolver: &notary.Resolver{
			DB:        trustDB,
			Retention: retention,
		},
		Updater: &notary.Updater{
			DB:              trustDB,
			MaxFingerprints: globalCfg.Notary.MaxFingerprints,
		},
		Fetcher: &fetcher.TLS{
			Timeout: globalCfg.Notary.FetchTimeout.Duration,
		},
		Metrics: newEngineMetrics(),
	}

	reaper := periodic.Start(
		cleaner.New(
			func(ctx context.Context) (int, error) {
				return trustDB.DeleteExpired(ctx, time.Now().Add(-retention))
			},
			"notary_truststorage",
			newCleanerMetrics(),
		),
		periodic.NewTicker(time.Hour),
		time.Minute,
	)
	defer reaper.Kill()

	g, errCtx := errgroup.WithContext(ctx)

	server := &mgmtapi.Server{
		Engine:       engine,
		Attestations: builder,
		DB:           trustDB,
	}
	apiServer := http.Server{
		Addr:    globalCfg.API.Addr,
		Handler: server.Handler(),
	}
	log.Info("Exposing API", "addr", globalCfg.API.Addr)
	g.Go(func() error {
		defer log.HandlePanic()
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return serrors.Wrap("serving API", err)
		}
		return nil
	})

	if addr := globalCfg.Metrics.Prometheus; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := http.Server{
			Addr:    addr,
			Handler: mux,
		}
		log.Info("Exposing metrics", "addr", addr)
		g.Go(func() error {
			defer log.HandlePanic()
			err := metricsServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving metrics", err)
			}
			return nil
		})
		g.Go(func() error {
			defer log.HandlePanic()
			<-errCtx.Done()
			return metricsServer.Close()
		})
	}

	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		return apiServer.Close()
	})

	return g.Wait()
}

func newEngineMetrics() notary.Metrics {
	verdicts := promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notary_verdicts_total",
			Help: "Total number of decided verification requests.",
		},
		[]string{"verdict"},
	)
	counter := func(verdict notary.Verdict) libmetrics.Counter {
		return libmetrics.NewPromCounter(verdicts.WithLabelValues(verdict.String()))
	}
	return notary.Metrics{
		Trusted:     counter(notary.VerdictTrusted),
		Verified:    counter(notary.VerdictVerified),
		Conflict:    counter(notary.VerdictConflict),
		Blacklisted: counter(notary.VerdictBlacklisted),
		FetchFailed: counter(notary.VerdictFetchFailed),
		StoreErrors: libmetrics.NewPromCounter(promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notary_store_errors_total",
				Help: "Total number of requests aborted by trust store read errors.",
			},
		)),
		RefreshErrors: libmetrics.NewPromCounter(promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notary_refresh_errors_total",
				Help: "Total number of failed trusted cache refreshes.",
			},
		)),
	}
}

func newCleanerMetrics() cleaner.Metrics {
	return cleaner.Metrics{
		ErrorsTotal: libmetrics.NewPromCounter(promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notary_cleaner_errors_total",
				Help: "Total number of failed cleaner runs.",
			},
		)),
		RunsTotal: libmetrics.NewPromCounter(promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notary_cleaner_runs_total",
				Help: "Total number of successful cleaner runs.",
			},
		)),
		DeletedTotal: libmetrics.NewPromCounter(promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notary_cleaner_deleted_total",
				Help: "Total number of expired trust records deleted.",
			},
		)),
	}
}
