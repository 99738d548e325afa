package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiredeck/hiredeck-go/httpx"
	"github.com/hiredeck/hiredeck-go/session"
)

// protectedClient is an API client authorized through the session transport,
// the way the resource services are wired in production.
func protectedClient(f *testFixture) *httpx.Client {
	return httpx.New(f.backend.server.URL,
		httpx.WithTimeout(5*time.Second),
		httpx.WithTransport(f.manager.Transport(nil)),
	)
}

func TestAuthorizedRequestSucceeds(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	client := protectedClient(f)

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/protected", &out))
	require.True(t, out["ok"])
	require.EqualValues(t, 0, f.backend.refreshCalls.Load(), "a live token needs no refresh")
}

func TestRejectedRequestIsRefreshedAndRetriedOnce(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.backend.rejectNext = 1
	client := protectedClient(f)

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/protected", &out))
	require.True(t, out["ok"])

	require.EqualValues(t, 1, f.backend.refreshCalls.Load())
	require.EqualValues(t, 2, f.backend.protectedCalls.Load(), "original request plus exactly one retry")
	require.True(t, f.manager.Snapshot().Authenticated(), "a successful refresh keeps the session alive")
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.backend.rejectNext = 1
	f.backend.failRefresh = true
	client := protectedClient(f)

	logouts := 0
	cancel := f.manager.Subscribe(func(s session.State) {
		if !s.Authenticated() && s.User == nil && !s.Loading {
			logouts++
		}
	})
	defer cancel()

	err := client.Get(context.Background(), "/protected", nil)

	require.ErrorIs(t, err, httpx.ErrSessionExpired)
	require.False(t, f.manager.Snapshot().Authenticated())
	require.Equal(t, 0, f.store.Len())
	require.Equal(t, 1, logouts, "forced logout fires exactly once")
	require.EqualValues(t, 1, f.backend.protectedCalls.Load(), "no retry without a fresh token")
}

func TestSecondRejectionIsFatal(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.backend.rejectNext = 2 // the retry gets rejected too
	client := protectedClient(f)

	err := client.Get(context.Background(), "/protected", nil)

	require.ErrorIs(t, err, httpx.ErrSessionExpired)
	require.EqualValues(t, 1, f.backend.refreshCalls.Load(), "only one refresh per failing request")
	require.EqualValues(t, 2, f.backend.protectedCalls.Load(), "no loops past the single retry")
	require.False(t, f.manager.Snapshot().Authenticated())
}

func TestUnauthenticatedRequestGetsNoBearer(t *testing.T) {
	f := setupTestFixture(t)
	client := protectedClient(f)

	err := client.Get(context.Background(), "/protected", nil)

	// No token and no refresh token: the 401 cannot be recovered.
	require.ErrorIs(t, err, httpx.ErrSessionExpired)
	require.EqualValues(t, 0, f.backend.refreshCalls.Load())
}

func TestTokenSource(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	token, err := f.manager.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	require.Equal(t, f.manager.Snapshot().AccessToken, token.AccessToken)
	require.Equal(t, "Bearer", token.TokenType)
	require.True(t, token.Expiry.After(time.Now()), "expiry comes from the JWT exp claim")
}

func TestTokenSourceWhenLoggedOut(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.manager.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, session.NotAuthenticatedErr)
}
