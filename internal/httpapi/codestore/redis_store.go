// Package codestore holds single-use signup confirmation codes. Codes live
// in Redis under the user's id with a bounded TTL and are hashed with bcrypt,
// so a leaked store dump does not leak usable codes.
package codestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrCodeInvalid covers every verification failure: unknown user, expired
// code, wrong code, already-consumed code. Callers get one answer so the
// endpoint does not reveal which case occurred.
var ErrCodeInvalid = errors.New("invalid or expired confirmation code")

type Store interface {
	// Save stores the code for the user, replacing any earlier code.
	Save(ctx context.Context, userID, code string) error
	// Consume verifies the code and removes it on success (one-time use).
	Consume(ctx context.Context, userID, code string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func key(userID string) string {
	return "confirmation_code:" + userID
}

func (s *redisStore) Save(ctx context.Context, userID, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), hash, s.ttl).Err(); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}
	return nil
}

func (s *redisStore) Consume(ctx context.Context, userID, code string) error {
	hash, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("load confirmation code: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(code)); err != nil {
		return ErrCodeInvalid
	}

	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}
	return nil
}
