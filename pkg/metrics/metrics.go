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

// Package metrics defines minimal interfaces for counter and gauge metrics.
// The interfaces decouple the application code from the metric implementation,
// such that components can be tested without a registry and metrics can be
// disabled by passing nil values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	Add(delta float64)
}

// Gauge describes a metric that takes arbitrary values.
type Gauge interface {
	Set(value float64)
	Add(delta float64)
}

// CounterInc increases the passed counter by one. The function is a no-op if
// the counter is nil.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}

// CounterAdd increases the passed counter by delta. The function is a no-op
// if the counter is nil.
func CounterAdd(c Counter, delta float64) {
	if c != nil {
		c.Add(delta)
	}
}

// GaugeSet sets the passed gauge to value. The function is a no-op if the
// gauge is nil.
func GaugeSet(g Gauge, value float64) {
	if g != nil {
		g.Set(value)
	}
}

type promCounter struct {
	prometheus.Counter
}

// NewPromCounter wraps a prometheus counter in the Counter interface.
func NewPromCounter(c prometheus.Counter) Counter {
	if c == nil {
		return nil
	}
	return promCounter{c}
}

type promGauge struct {
	prometheus.Gauge
}

// NewPromGauge wraps a prometheus gauge in the Gauge interface.
func NewPromGauge(g prometheus.Gauge) Gauge {
	if g == nil {
		return nil
	}
	return promGauge{g}
}
