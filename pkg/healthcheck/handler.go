/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthcheck

import (
	"net/http"

	"github.com/alexliesenfeld/health"

	"github.com/idresolve/esia-go/pkg/observability/healthutil"
)

// Handler builds an HTTP handler that runs the given checks on demand and
// renders the aggregated status with per-component response times.
func Handler(checks ...health.Check) http.Handler {
	responseTimes := map[string]healthutil.ResponseTimeState{}

	opts := []health.CheckerOption{
		health.WithInterceptors(healthutil.ResponseTimeInterceptor(responseTimes)),
	}

	for _, check := range checks {
		opts = append(opts, health.WithCheck(check))
	}

	return health.NewHandler(
		health.NewChecker(opts...),
		health.WithResultWriter(healthutil.NewJSONResultWriter(responseTimes)),
	)
}
