/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider")

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "esia"

	// Crypto plain crypto operations.
	Crypto               = "crypto"
	CryptoSignTimeMetric = "crypto_sign_seconds"

	// Provider HTTP operations.
	HTTPProvider              = "provider"
	ProviderRequestTimeMetric = "provider_request_seconds"

	// Service operations.
	Service                         = "service"
	CompleteAuthorizationTimeMetric = "service_completeAuthorization_seconds"
	StartVerificationTimeMetric     = "service_startVerification_seconds"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SignTime(value time.Duration)
	RequestTime(value time.Duration)
	CompleteAuthorizationTime(value time.Duration)
	StartVerificationTime(value time.Duration)
}
