package session

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the session to oauth2.TokenSource so oauth2-aware HTTP
// stacks can consume it directly.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, manager: m}
}

type tokenSource struct {
	ctx     context.Context
	manager *Manager
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	raw, err := ts.manager.Token(ts.ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, NotAuthenticatedErr
	}

	token := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := tokenExpiry(raw); ok {
		token.Expiry = exp
	}
	return token, nil
}
