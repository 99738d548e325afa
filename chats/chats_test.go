package chats_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiredeck/hiredeck-go/chats"
	"github.com/hiredeck/hiredeck-go/httpx"
)

func TestListUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chats":[{"id":"chat-1","job_title":"Welder"}]}`))
	}))
	defer server.Close()

	service := chats.New(httpx.New(server.URL))
	threads, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, "chat-1", threads[0].ID)
}

func TestGetThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/chat-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chat-1","messages":[{"sender":"user","text":"hi","timestamp":"2026-01-01T00:00:00"}]}`))
	}))
	defer server.Close()

	service := chats.New(httpx.New(server.URL))
	chat, err := service.Get(context.Background(), "chat-1")
	require.NoError(t, err)
	require.Len(t, chat.Messages, 1)
	require.Equal(t, "hi", chat.Messages[0].Text)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chats/chat-1/messages", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello there", body["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":{"sender":"user","text":"hello there","timestamp":"2026-01-01T00:00:00"}}`))
	}))
	defer server.Close()

	service := chats.New(httpx.New(server.URL))
	msg, err := service.SendMessage(context.Background(), "chat-1", "hello there")
	require.NoError(t, err)
	require.Equal(t, "hello there", msg.Text)
	require.Equal(t, "user", msg.Sender)
}

func TestSendMessageRequiresText(t *testing.T) {
	service := chats.New(httpx.New("http://unreachable.invalid"))
	_, err := service.SendMessage(context.Background(), "chat-1", "")
	require.Error(t, err)
}
