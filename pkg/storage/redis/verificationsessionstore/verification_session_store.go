/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verificationsessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisapi "github.com/redis/go-redis/v9"

	"github.com/idresolve/esia-go/pkg/esiaerr"
	"github.com/idresolve/esia-go/pkg/service/verification"
	"github.com/idresolve/esia-go/pkg/storage/redis"
)

const (
	keyPrefix = "verificationsession"
)

// Store keeps started biometric verification sessions in redis so a result
// can be requested from a different process than the one that started the
// verification. Saving the same session id again overwrites the entry.
type Store struct {
	defaultTTL  time.Duration
	redisClient *redis.Client
}

// New creates a new instance of Store.
func New(redisClient *redis.Client, ttlSec int32) *Store {
	return &Store{
		redisClient: redisClient,
		defaultTTL:  time.Duration(ttlSec) * time.Second,
	}
}

func (s *Store) SaveSession(ctx context.Context, session *verification.Session) error {
	doc := &redisDocument{
		ExpireAt: time.Now().UTC().Add(s.defaultTTL),
		Session:  session,
	}

	if err := s.redisClient.API().Set(ctx, resolveRedisKey(session.ID), doc, s.defaultTTL).Err(); err != nil {
		return fmt.Errorf("saveSession failed: %w", err)
	}

	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*verification.Session, error) {
	b, err := s.redisClient.API().Get(ctx, resolveRedisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redisapi.Nil) {
			return nil, esiaerr.ErrSessionNotFound
		}

		return nil, fmt.Errorf("find: %w", err)
	}

	var doc redisDocument
	if err = json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("verification session decode: %w", err)
	}

	if doc.ExpireAt.Before(time.Now().UTC()) {
		return nil, esiaerr.ErrSessionNotFound
	}

	return doc.Session, nil
}

func resolveRedisKey(id string) string {
	return fmt.Sprintf("%s-%s", keyPrefix, id)
}
