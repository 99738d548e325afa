// Package chats is the typed client for the messaging threads opened when an
// application is accepted.
package chats

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

// Message is one message in a thread. Sender is "user" or "employer".
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Chat is a thread; Messages is populated on Get, not List.
type Chat struct {
	ID       string    `json:"id"`
	JobTitle string    `json:"job_title,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

type Service struct {
	api *httpx.Client
}

func New(api *httpx.Client) *Service {
	return &Service{api: api}
}

// List returns all chat threads for the current user.
func (s *Service) List(ctx context.Context) ([]Chat, error) {
	var out struct {
		Chats []Chat `json:"chats"`
	}
	if err := s.api.Get(ctx, httpx.RouteChats, &out); err != nil {
		return nil, errors.Wrap(err, "[chats.List]")
	}
	return out.Chats, nil
}

// Get returns one thread with its messages.
func (s *Service) Get(ctx context.Context, chatID string) (*Chat, error) {
	var out Chat
	if err := s.api.Get(ctx, fmt.Sprintf("%s/%s", httpx.RouteChats, chatID), &out); err != nil {
		return nil, errors.Wrapf(err, "[chats.Get] %s", chatID)
	}
	return &out, nil
}

// SendMessage appends a message to a thread and returns the stored message.
func (s *Service) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	if text == "" {
		return nil, errors.New("[chats.SendMessage] text is required")
	}

	var out struct {
		Status  string  `json:"status"`
		Message Message `json:"message"`
	}
	path := fmt.Sprintf("%s/%s/messages", httpx.RouteChats, chatID)
	if err := s.api.Post(ctx, path, map[string]string{"text": text}, &out); err != nil {
		return nil, errors.Wrapf(err, "[chats.SendMessage] %s", chatID)
	}
	return &out.Message, nil
}
