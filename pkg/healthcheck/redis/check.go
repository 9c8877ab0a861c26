/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package redis

import (
	"context"
	"fmt"

	redisapi "github.com/redis/go-redis/v9"
)

// New returns a check that connects to redis and pings it. A fresh client is
// created and closed on every probe.
func New(addrs []string, masterName, password string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		client := redisapi.NewUniversalClient(&redisapi.UniversalOptions{
			Addrs:                 addrs,
			ContextTimeoutEnabled: true,
			MasterName:            masterName,
			Password:              password,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return fmt.Errorf("failed to ping redis: %w", err)
		}

		return client.Close()
	}
}
