package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRevocation_RevokeClaimsOnce(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := database.NewRedisClient(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repo := NewTokenRevocationRepository(client)
	token := "refresh-" + uuid.NewString()
	expiresAt := time.Now().Add(time.Minute).Unix()

	revoked, err := repo.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	claimed, err := repo.Revoke(ctx, token, expiresAt)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Revoke(ctx, token, expiresAt)
	require.NoError(t, err)
	assert.False(t, claimed, "second revoke of the same token must not claim it")

	revoked, err = repo.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, revokedKeyPrefix+hashToken(token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
