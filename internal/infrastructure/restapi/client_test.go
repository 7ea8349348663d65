package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-data/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) BearerToken(context.Context) (string, error) { return string(s), nil }

func TestClientDo_SendsBearerAndUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer api-token" {
			t.Errorf("unexpected authorization: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/players":
			if r.URL.Query().Get("search") != "alp" {
				t.Errorf("query not forwarded: %s", r.URL.RawQuery)
			}
			_ = jsoniter.NewEncoder(w).Encode(map[string]any{
				"apiVersion": "2.0",
				"data":       []map[string]any{{"id": 1, "nickname": "alpha"}},
			})
		case "/players/1":
			var body map[string]any
			if err := jsoniter.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if r.Method != http.MethodPut || body["nickname"] != "beta" {
				t.Errorf("unexpected request: %s %v", r.Method, body)
			}
			_ = jsoniter.NewEncoder(w).Encode(map[string]any{"nickname": "beta"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, Tokens: staticTokens("api-token")})
	require.NoError(t, err)

	data, err := client.Do(context.Background(), http.MethodGet, "/players?search=alp", nil)
	require.NoError(t, err)
	list, ok := data.([]any)
	require.True(t, ok, "expected array, got %T", data)
	require.Len(t, list, 1)

	data, err = client.Do(context.Background(), http.MethodPut, "/players/1", map[string]any{"nickname": "beta"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"nickname": "beta"}, data)
}

func TestClientDo_MapsErrorStatuses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			_ = jsoniter.NewEncoder(w).Encode(map[string]any{
				"apiVersion": "2.0",
				"error":      map[string]any{"code": 409, "message": "stale sha"},
			})
		case "/config":
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = jsoniter.NewEncoder(w).Encode(map[string]any{
				"apiVersion": "2.0",
				"error": map[string]any{
					"code":    503,
					"message": "not configured",
					"errors":  []map[string]string{{"reason": "notConfigured"}},
				},
			})
		case "/boom":
			w.WriteHeader(http.StatusBadGateway)
		case "/unsupported":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		path string
		want error
	}{
		{path: "/conflict", want: usecase.ErrConflict},
		{path: "/config", want: usecase.ErrConfiguration},
		{path: "/boom", want: usecase.ErrTransientNetwork},
		{path: "/unsupported", want: usecase.ErrUnsupportedOperation},
		{path: "/missing", want: usecase.ErrNotFound},
	}
	for _, tc := range tests {
		_, err := client.Do(ctx, http.MethodGet, tc.path, nil)
		if !errors.Is(err, tc.want) {
			t.Fatalf("path %s: expected %v, got %v", tc.path, tc.want, err)
		}
	}

	_, err = client.Do(ctx, http.MethodGet, "/conflict", nil)
	assert.Contains(t, err.Error(), "stale sha")
}

func TestClientDo_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/settings", nil)
	assert.ErrorIs(t, err, usecase.ErrTransientNetwork)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.ErrorIs(t, err, usecase.ErrConfiguration)
}
