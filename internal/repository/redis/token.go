package redis

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

type tokenRevocationRepositoryImpl struct {
	client *goredis.Client
}

// NewTokenRevocationRepository stores revoked tokens as keys that expire
// together with the token.
func NewTokenRevocationRepository(client *goredis.Client) auth.TokenRevocationRepository {
	return &tokenRevocationRepositoryImpl{client: client}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// Revoke implements auth.TokenRevocationRepository.
func (r *tokenRevocationRepositoryImpl) Revoke(ctx context.Context, token string, expiresAt int64) (bool, error) {
	ttl := time.Until(time.Unix(expiresAt, 0))
	if ttl <= 0 {
		return true, nil
	}
	set, err := r.client.SetNX(ctx, revokedKeyPrefix+hashToken(token), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return set, nil
}

// IsRevoked implements auth.TokenRevocationRepository.
func (r *tokenRevocationRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, revokedKeyPrefix+hashToken(token)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}
