/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/idresolve/esia-go/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	go func() {
		if err := pp.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics HTTP server stopped", log.WithError(err))
		}
	}()

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the client metrics.
type PromMetrics struct {
	signTime         prometheus.Histogram
	requestTime      prometheus.Histogram
	completeAuthTime prometheus.Histogram
	startVerifyTime  prometheus.Histogram
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		signTime:         newSignTime(),
		requestTime:      newRequestTime(),
		completeAuthTime: newCompleteAuthTime(),
		startVerifyTime:  newStartVerifyTime(),
	}

	registerMetrics(pm)

	return pm
}

// SignTime records the time for sign.
func (pm *PromMetrics) SignTime(value time.Duration) {
	pm.signTime.Observe(value.Seconds())

	logger.Debug("crypto sign time", log.WithDuration(value))
}

// RequestTime records the time for a provider HTTP round trip.
func (pm *PromMetrics) RequestTime(value time.Duration) {
	pm.requestTime.Observe(value.Seconds())

	logger.Debug("provider request time", log.WithDuration(value))
}

// CompleteAuthorizationTime records the time for CompleteAuthorization service call.
func (pm *PromMetrics) CompleteAuthorizationTime(value time.Duration) {
	pm.completeAuthTime.Observe(value.Seconds())

	logger.Debug("CompleteAuthorization service call time", log.WithDuration(value))
}

// StartVerificationTime records the time for StartVerification service call.
func (pm *PromMetrics) StartVerificationTime(value time.Duration) {
	pm.startVerifyTime.Observe(value.Seconds())

	logger.Debug("StartVerification service call time", log.WithDuration(value))
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.signTime, pm.requestTime, pm.completeAuthTime, pm.startVerifyTime,
	)
}

func newCounter(subsystem, name, help string, labels prometheus.Labels) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newGauge(subsystem, name, help string, labels prometheus.Labels) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newHistogram(subsystem, name, help string, labels prometheus.Labels) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newSignTime() prometheus.Histogram {
	return newHistogram(
		metrics.Crypto, metrics.CryptoSignTimeMetric,
		"The time (in seconds) it takes to run crypto sign.",
		nil,
	)
}

func newRequestTime() prometheus.Histogram {
	return newHistogram(
		metrics.HTTPProvider, metrics.ProviderRequestTimeMetric,
		"The time (in seconds) it takes to complete a provider HTTP request.",
		nil,
	)
}

func newCompleteAuthTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.CompleteAuthorizationTimeMetric,
		"The time (in seconds) it takes to execute CompleteAuthorization service call.",
		nil,
	)
}

func newStartVerifyTime() prometheus.Histogram {
	return newHistogram(
		metrics.Service, metrics.StartVerificationTimeMetric,
		"The time (in seconds) it takes to execute StartVerification service call.",
		nil,
	)
}
