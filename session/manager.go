// Package session owns the authentication lifecycle: acquiring a session via
// OTP login, restoring it at startup, refreshing access tokens silently and
// tearing everything down on logout. The access token lives only in memory;
// the refresh token and cached user live in the keystore, and nothing outside
// this package writes those keys.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hiredeck/hiredeck-go/httpx"
	"github.com/hiredeck/hiredeck-go/internal/utils"
	"github.com/hiredeck/hiredeck-go/session/keystore"
)

// Keystore keys. storageKeyLegacyToken predates memory-only access tokens and
// is cleared on logout so stale installs converge.
const (
	storageKeyRefreshToken = "refreshToken"
	storageKeyUserData     = "userData"
	storageKeyLegacyToken  = "userToken"
)

const defaultRefreshLeeway = 30 * time.Second

// Manager drives the session state machine. All methods are safe for
// concurrent use. Consumers observe state through Snapshot and Subscribe
// rather than through any ambient global.
type Manager struct {
	api     *httpx.Client // plain client for the /auth endpoints, never session-authorized
	store   keystore.Store
	state   *store
	log     zerolog.Logger
	nowTime func() time.Time // nowTime function (injectable for testing)

	otpLimiter    *rate.Limiter
	refreshLeeway time.Duration
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithRefreshLeeway sets how long before access-token expiry a proactive
// refresh kicks in.
func WithRefreshLeeway(d time.Duration) Option {
	return func(m *Manager) {
		m.refreshLeeway = d
	}
}

// WithOTPLimiter replaces the client-side throttle on OTP sends.
func WithOTPLimiter(limiter *rate.Limiter) Option {
	return func(m *Manager) {
		m.otpLimiter = limiter
	}
}

// New initializes a Manager with its required dependencies.
func New(api *httpx.Client, store keystore.Store, options ...Option) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[session.New] api client is required")
	}
	if store == nil {
		return nil, errors.New("[session.New] keystore is required")
	}

	m := &Manager{
		api:     api,
		store:   store,
		state:   newStore(),
		log:     zerolog.Nop(),
		nowTime: time.Now,
		// The backend throttles OTP sends per identifier; this is the
		// client-side courtesy limit so a looping caller never hits that.
		otpLimiter:    rate.NewLimiter(rate.Every(20*time.Second), 3),
		refreshLeeway: defaultRefreshLeeway,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() State {
	return m.state.snapshot()
}

// Subscribe registers fn to be called after every state change. The returned
// function cancels the subscription.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	return m.state.subscribe(fn)
}

// Bootstrap restores a persisted session at process start. With a valid
// refresh token it exchanges for a fresh access token before reporting the
// session as authenticated; any failure on that path tears the session down
// completely. With nothing persisted it resolves to logged-out without a
// network call. Loading is true for the whole duration, so callers can hold
// rendering until it resolves.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.setLoading(true)
	m.bootstrap(ctx)
	m.setLoading(false)
	return m.Snapshot()
}

func (m *Manager) bootstrap(ctx context.Context) {
	refreshToken, userJSON := m.readPersisted(ctx)

	if refreshToken == "" && userJSON == "" {
		return
	}
	if refreshToken == "" || userJSON == "" {
		// Half a persisted session is an invalid session.
		m.log.Warn().Msg("partial persisted session, forcing logout")
		m.forceLogout(ctx)
		return
	}

	var user User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		m.log.Warn().Err(err).Msg("corrupt persisted user, forcing logout")
		m.forceLogout(ctx)
		return
	}

	// Prove the refresh token is still good before letting anyone in.
	tokenResp, err := m.refreshExchange(ctx, refreshToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("bootstrap refresh failed, forcing logout")
		m.forceLogout(ctx)
		return
	}

	m.state.update(func(s *State) {
		s.AccessToken = tokenResp.AccessToken
		s.User = &user
	})
	m.persistRotated(ctx, tokenResp.RefreshToken)
	m.log.Info().Str("user_id", user.ID).Msg("session restored")
}

// readPersisted reads the refresh token and cached user in parallel. Missing
// keys read as empty strings.
func (m *Manager) readPersisted(ctx context.Context) (refreshToken, userJSON string) {
	type readResult struct {
		key   string
		value string
	}

	results := make(chan readResult, 2)
	for _, key := range []string{storageKeyRefreshToken, storageKeyUserData} {
		go func(key string) {
			value, err := m.store.Get(ctx, key)
			if err != nil {
				value = ""
			}
			results <- readResult{key: key, value: value}
		}(key)
	}

	for i := 0; i < 2; i++ {
		r := <-results
		if r.key == storageKeyRefreshToken {
			refreshToken = r.value
		} else {
			userJSON = r.value
		}
	}
	return refreshToken, userJSON
}

// RequestOTP asks the backend to send a one-time code to identifier. It only
// checks that the identifier is non-empty; anything stricter belongs to the
// form layer. The session is never mutated by this call, and the returned
// error is always a *session.Error.
func (m *Manager) RequestOTP(ctx context.Context, identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return &Error{Kind: KindValidation, cause: IdentifierRequiredErr}
	}
	if !m.otpLimiter.Allow() {
		return &Error{Kind: KindThrottled}
	}

	if err := m.api.Post(ctx, httpx.RouteAuthSendOTP, sendOTPRequest{Identifier: identifier}, nil); err != nil {
		m.log.Warn().Err(err).Msg("send otp failed")
		return classify(err)
	}
	return nil
}

// VerifyOTP exchanges the one-time code for a session. On success the access
// token is installed in memory and the user and refresh token are persisted
// in parallel. On failure the session is left exactly as it was. The cached
// user carries the role chosen at login; any role echoed by the server is
// ignored for this field.
func (m *Manager) VerifyOTP(ctx context.Context, identifier, otp string, role RoleType) error {
	if strings.TrimSpace(identifier) == "" {
		return &Error{Kind: KindValidation, cause: IdentifierRequiredErr}
	}
	if strings.TrimSpace(otp) == "" {
		return &Error{Kind: KindValidation, cause: OTPRequiredErr}
	}
	if role == "" {
		role = RoleJobSeeker
	}

	m.setLoading(true)
	defer m.setLoading(false)

	var tokenResp tokenResponse
	err := m.api.Post(ctx, httpx.RouteAuthVerifyOTP, verifyOTPRequest{
		Identifier: identifier,
		OTP:        otp,
		Role:       role,
	}, &tokenResp)
	if err != nil {
		m.log.Warn().Err(err).Msg("verify otp failed")
		return classify(err)
	}

	user := &User{
		ID:         tokenResp.UserID,
		Identifier: identifier,
		Role:       role,
		IsNewUser:  utils.Value(tokenResp.IsNewUser),
	}

	m.state.update(func(s *State) {
		s.AccessToken = tokenResp.AccessToken
		s.User = user
	})

	// Persist user and refresh token together. If either write fails the
	// in-memory session stays live; the next bootstrap re-validates against
	// whatever actually landed on disk.
	userJSON, _ := json.Marshal(user)
	var wg sync.WaitGroup
	persist := func(key, value string) {
		defer wg.Done()
		if err := m.store.Set(ctx, key, value); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("persist failed")
		}
	}
	wg.Add(1)
	go persist(storageKeyUserData, string(userJSON))
	if tokenResp.RefreshToken != "" {
		wg.Add(1)
		go persist(storageKeyRefreshToken, tokenResp.RefreshToken)
	}
	wg.Wait()

	m.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("logged in")
	return nil
}

// Logout tears the session down. The server-side revocation is best-effort;
// local state and storage are cleared even with no connectivity at all.
// Logging out while already logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.setLoading(true)
	m.forceLogout(ctx)
	m.setLoading(false)
}

// forceLogout is the shared cleanup path for explicit logout, bootstrap
// failures and exhausted refresh retries.
func (m *Manager) forceLogout(ctx context.Context) {
	if refreshToken, err := m.store.Get(ctx, storageKeyRefreshToken); err == nil && refreshToken != "" {
		if err := m.api.Post(ctx, httpx.RouteAuthLogout, logoutRequest{RefreshToken: refreshToken}, nil); err != nil {
			m.log.Debug().Err(err).Msg("server-side logout failed, clearing locally anyway")
		}
	}

	var wg sync.WaitGroup
	for _, key := range []string{storageKeyRefreshToken, storageKeyUserData, storageKeyLegacyToken} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := m.store.Delete(ctx, key); err != nil {
				m.log.Warn().Err(err).Str("key", key).Msg("clear failed")
			}
		}(key)
	}
	wg.Wait()

	m.state.update(func(s *State) {
		s.AccessToken = ""
		s.User = nil
	})
	m.log.Info().Msg("logged out")
}

// UserUpdate holds a shallow merge into the cached user. Nil fields are left
// untouched.
type UserUpdate struct {
	Identifier *string
	Role       *RoleType
	IsNewUser  *bool
}

// UpdateUser merges updates into the cached user and re-persists it. Tokens
// are not touched. Returns NotAuthenticatedErr when no user is cached.
func (m *Manager) UpdateUser(ctx context.Context, updates UserUpdate) (*User, error) {
	var merged *User
	m.state.update(func(s *State) {
		if s.User == nil {
			return
		}
		user := *s.User
		if updates.Identifier != nil {
			user.Identifier = utils.Value(updates.Identifier)
		}
		if updates.Role != nil {
			user.Role = utils.Value(updates.Role)
		}
		if updates.IsNewUser != nil {
			user.IsNewUser = utils.Value(updates.IsNewUser)
		}
		s.User = &user
		merged = &user
	})
	if merged == nil {
		return nil, NotAuthenticatedErr
	}

	userJSON, err := json.Marshal(merged)
	if err != nil {
		return merged, errors.Wrap(err, "[Manager.UpdateUser] marshal user")
	}
	if err := m.store.Set(ctx, storageKeyUserData, string(userJSON)); err != nil {
		return merged, errors.Wrap(err, "[Manager.UpdateUser] persist user")
	}
	return merged, nil
}

// Token returns an access token good for at least the refresh leeway. An
// expiring or absent token triggers a refresh from storage; if the refresh
// fails but the current token still exists it is served as-is and the 401
// path takes over from there.
func (m *Manager) Token(ctx context.Context) (string, error) {
	current := m.state.snapshot().AccessToken
	if current != "" {
		exp, ok := tokenExpiry(current)
		if !ok || m.nowTime().Add(m.refreshLeeway).Before(exp) {
			return current, nil
		}
	}

	token, err := m.refreshFromStorage(ctx)
	if err != nil {
		if current != "" {
			m.log.Debug().Err(err).Msg("proactive refresh failed, serving current token")
			return current, nil
		}
		return "", err
	}
	return token, nil
}

// refreshFromStorage exchanges the persisted refresh token for a new access
// token and installs it. It does not force a logout on failure; callers own
// that decision.
func (m *Manager) refreshFromStorage(ctx context.Context) (string, error) {
	refreshToken, err := m.store.Get(ctx, storageKeyRefreshToken)
	if err != nil || refreshToken == "" {
		return "", NotAuthenticatedErr
	}

	tokenResp, err := m.refreshExchange(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	m.state.update(func(s *State) {
		s.AccessToken = tokenResp.AccessToken
	})
	m.persistRotated(ctx, tokenResp.RefreshToken)
	return tokenResp.AccessToken, nil
}

func (m *Manager) refreshExchange(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	var tokenResp tokenResponse
	err := m.api.Post(ctx, httpx.RouteAuthRefresh, refreshRequest{RefreshToken: refreshToken}, &tokenResp)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.refreshExchange]")
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.New("[Manager.refreshExchange] empty access token in response")
	}
	return &tokenResp, nil
}

// persistRotated stores a rotated refresh token when the server issued one.
func (m *Manager) persistRotated(ctx context.Context, rotated string) {
	if rotated == "" {
		return
	}
	if err := m.store.Set(ctx, storageKeyRefreshToken, rotated); err != nil {
		m.log.Warn().Err(err).Msg("persisting rotated refresh token failed")
	}
}

func (m *Manager) setLoading(loading bool) {
	m.state.update(func(s *State) {
		s.Loading = loading
	})
}
