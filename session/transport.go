package session

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

// Transport returns an http.RoundTripper that attaches the current access
// token as a bearer credential and performs at most one silent
// refresh-and-retry when a request comes back 401/403. When that single cycle
// is exhausted it forces a logout and fails the request with
// httpx.ErrSessionExpired. Refresh and logout calls pass through untouched so
// a failing refresh can never recurse into itself.
//
// The dependency runs one way: this transport lives in the session layer and
// is handed to the HTTP client; the HTTP layer never calls back in.
func (m *Manager) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &roundTripper{manager: m, base: base}
}

type roundTripper struct {
	manager *Manager
	base    http.RoundTripper
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if isRefreshOrLogout(req.URL.Path) {
		return rt.base.RoundTrip(req)
	}

	token, err := rt.manager.Token(req.Context())
	if err != nil && !errors.Is(err, NotAuthenticatedErr) {
		rt.manager.log.Debug().Err(err).Msg("no token for request")
	}

	authed := req.Clone(req.Context())
	if token != "" {
		authed.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := rt.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	drain(resp)

	rt.manager.log.Debug().Str("path", req.URL.Path).Msg("access token rejected, refreshing")
	newToken, err := rt.manager.refreshFromStorage(req.Context())
	if err != nil {
		rt.manager.forceLogout(req.Context())
		return nil, errors.Wrap(httpx.ErrSessionExpired, "[Transport] refresh failed")
	}

	retry, err := cloneForRetry(req, newToken)
	if err != nil {
		return nil, err
	}
	resp, err = rt.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Second rejection is fatal for this request; no loops.
		drain(resp)
		rt.manager.forceLogout(req.Context())
		return nil, errors.Wrap(httpx.ErrSessionExpired, "[Transport] retry rejected")
	}
	return resp, nil
}

func isRefreshOrLogout(path string) bool {
	return strings.HasSuffix(path, httpx.RouteAuthRefresh) || strings.HasSuffix(path, httpx.RouteAuthLogout)
}

// cloneForRetry rebuilds the request with a fresh body; the original body was
// consumed by the first attempt.
func cloneForRetry(req *http.Request, token string) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, errors.New("[Transport] request body is not replayable")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Transport] replay body")
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)
	return retry, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
