/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verificationsessionstore

import (
	"encoding/json"
	"time"

	"github.com/idresolve/esia-go/pkg/service/verification"
)

type redisDocument struct {
	ExpireAt time.Time             `json:"expireAt"`
	Session  *verification.Session `json:"session"`
}

func (d *redisDocument) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *redisDocument) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
