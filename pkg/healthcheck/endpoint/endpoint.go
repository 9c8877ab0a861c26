/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endpoint

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// New returns a check that reports the endpoint healthy as long as it answers
// at all with a status below 500. Auth challenges and redirects count as
// healthy: the check probes reachability, not access.
func New(url string, client *http.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach %s: %w", url, err)
		}

		defer func() {
			_ = resp.Body.Close()
		}()

		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s responded with status %d", url, resp.StatusCode)
		}

		return nil
	}
}
