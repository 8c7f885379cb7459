package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type memoryRevocations struct {
	mu     sync.Mutex
	tokens map[string]int64
}

func (m *memoryRevocations) Revoke(ctx context.Context, token string, expiresAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; ok {
		return false, nil
	}
	m.tokens[token] = expiresAt
	return true, nil
}

func (m *memoryRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[token]
	return ok, nil
}

type testEnv struct {
	store       *fixtures.Store
	jwt         jwt.Service
	revocations *memoryRevocations
	svc         auth.AuthService
	user        user.User
}

func setup(t *testing.T) testEnv {
	t.Helper()
	store := fixtures.NewStore()

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	u, err := store.Users().Create(context.Background(), user.User{
		Name:         "Ada Admin",
		Email:        "ada@example.com",
		Role:         user.RoleAdmin,
		Department:   fixtures.StrPtr("Engineering"),
		PasswordHash: &hashStr,
	})
	require.NoError(t, err)

	rev := &memoryRevocations{tokens: make(map[string]int64)}
	return testEnv{
		store:       store,
		jwt:         jwtService,
		revocations: rev,
		svc:         NewAuthService(store.Users(), jwtService, rev),
		user:        u,
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"valid credentials", auth.LoginRequest{Email: "ada@example.com", Password: "password123"}, nil},
		{"wrong password", auth.LoginRequest{Email: "ada@example.com", Password: "nope-nope"}, auth.ErrInvalidCredentials},
		{"unknown email", auth.LoginRequest{Email: "who@example.com", Password: "password123"}, auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.svc.Login(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)

			token, err := jwtauth.VerifyToken(env.jwt.JWTAuth(), resp.AccessToken)
			require.NoError(t, err)
			claims, err := token.AsMap(ctx)
			require.NoError(t, err)
			assert.Equal(t, env.user.ID, claims["user_id"])
			assert.Equal(t, "admin", claims["role"])
			assert.Equal(t, "Engineering", claims["department"])
			assert.Equal(t, jwt.TokenTypeAccess, claims["type"])
		})
	}
}

func TestRefreshToken_SingleUse(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	login, err := env.svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}

func TestRefreshToken_ConcurrentUseSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	login, err := env.svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	login, err := env.svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = env.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	login, err := env.svc.Login(ctx, auth.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	err = env.svc.Logout(ctx, auth.LogoutRequest{AccessToken: login.AccessToken, RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	for _, tok := range []string{login.AccessToken, login.RefreshToken} {
		revoked, err := env.revocations.IsRevoked(ctx, tok)
		require.NoError(t, err)
		assert.True(t, revoked)
	}

	// garbage is ignored
	assert.NoError(t, env.svc.Logout(ctx, auth.LogoutRequest{AccessToken: "not-a-jwt"}))
}

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	_, err := env.svc.LoginWithGoogle(ctx, "stranger@example.com", "g-1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	resp, err := env.svc.LoginWithGoogle(ctx, "ada@example.com", "g-ada")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	linked, err := env.store.Users().GetByGoogleID(ctx, "g-ada")
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, linked.ID)

	_, err = env.svc.LoginWithGoogle(ctx, "ada@example.com", "g-other")
	assert.ErrorIs(t, err, user.ErrGoogleIDExists)
}
