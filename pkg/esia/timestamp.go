/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package esia

import "time"

// timestampLayout is the provider's timestamp format: "2016.12.31 23:59:59 +0000".
const timestampLayout = "2006.01.02 15:04:05 -0700"

// Timestamp renders t in the provider's request timestamp format, normalized
// to UTC so the zone suffix is always +0000.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
