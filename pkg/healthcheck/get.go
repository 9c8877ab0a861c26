/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package healthcheck assembles liveness checks for the external systems an
// embedding service depends on: the identity provider, the biometric
// verification provider and, when sessions are persisted, redis.
package healthcheck

import (
	"time"

	"github.com/alexliesenfeld/health"

	"github.com/idresolve/esia-go/pkg/healthcheck/endpoint"
	"github.com/idresolve/esia-go/pkg/healthcheck/redis"
	"github.com/idresolve/esia-go/pkg/transport"
)

const checkTimeout = 5 * time.Second

type RedisParameters struct {
	Addrs      []string
	MasterName string
	Password   string
}

type Config struct {
	IdentityProviderURL     string
	VerificationProviderURL string
	RedisParameters         *RedisParameters
}

func Get(config *Config) []health.Check {
	client := transport.NewHTTPClient(checkTimeout)

	checks := []health.Check{
		{
			Name:               "identity-provider",
			Check:              endpoint.New(config.IdentityProviderURL, client),
			MaxTimeInError:     1,
			MaxContiguousFails: 1,
		},
		{
			Name:               "verification-provider",
			Check:              endpoint.New(config.VerificationProviderURL, client),
			MaxTimeInError:     1,
			MaxContiguousFails: 1,
		},
	}

	if config.RedisParameters != nil {
		checks = append(checks, health.Check{
			Name: "redis",
			Check: redis.New(
				config.RedisParameters.Addrs,
				config.RedisParameters.MasterName,
				config.RedisParameters.Password,
			),
			MaxTimeInError:     1,
			MaxContiguousFails: 1,
		})
	}

	return checks
}
