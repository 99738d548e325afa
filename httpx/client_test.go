package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/hiredeck-go/httpx"
)

func TestGetDecodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello"}`))
	}))
	defer server.Close()

	client := httpx.New(server.URL)
	var out map[string]string
	require.NoError(t, client.Get(context.Background(), "/thing", &out))
	require.Equal(t, "hello", out["message"])
}

func TestRequestCarriesIDAndContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		_, err := uuid.Parse(requestID)
		require.NoError(t, err, "every request carries a parseable request ID")
		require.Contains(t, r.Header.Get("Content-Type"), "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := httpx.New(server.URL)
	require.NoError(t, client.Post(context.Background(), "/thing", map[string]string{"a": "b"}, nil))
}

func TestTimeoutIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpx.New(server.URL, httpx.WithTimeout(50*time.Millisecond))
	err := client.Get(context.Background(), "/slow", nil)

	require.ErrorIs(t, err, httpx.ErrTimeout)
	require.NotErrorIs(t, err, httpx.ErrUnauthorized, "a timeout is not a credential failure")
}

func TestUnauthorizedMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := httpx.New(server.URL)
	err := client.Get(context.Background(), "/secure", nil)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestAPIErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := httpx.New(server.URL)
	err := client.Get(context.Background(), "/broken", nil)

	var apiErr *httpx.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "boom", apiErr.Body)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // nothing listening: every call is a transport failure

	client := httpx.New(server.URL, httpx.WithTimeout(100*time.Millisecond))

	var err error
	for i := 0; i < 10; i++ {
		err = client.Get(context.Background(), "/down", nil)
		require.Error(t, err)
	}
	require.ErrorIs(t, err, httpx.ErrUnavailable, "the breaker opens once failures pile up")
}

func TestNoRetryWrappingForPlainErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	}))
	defer server.Close()

	client := httpx.New(server.URL)
	err := client.Get(context.Background(), "/missing", nil)

	var apiErr *httpx.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
