package cms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_QuerySendsRequest(t *testing.T) {
	var got struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		_, _ = io.WriteString(w, `{"data":{"projects":[]}}`)
	})

	client := NewClient(srv.URL, "secret-token")
	data, err := client.Query(context.Background(), ProjectsQuery, map[string]any{"first": 10})
	require.NoError(t, err)

	assert.JSONEq(t, `{"projects":[]}`, string(data))
	assert.Equal(t, ProjectsQuery, got.Query)
	assert.Equal(t, map[string]any{"first": float64(10)}, got.Variables)
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = io.WriteString(w, `{"data":{}}`)
	})

	_, err := NewClient(srv.URL, "").Query(context.Background(), "{ projects { slug } }", nil)
	require.NoError(t, err)
	_, hasVariables := raw["variables"]
	assert.False(t, hasVariables, "variables should be omitted when nil")
}

func TestClient_EmptyQuery(t *testing.T) {
	_, err := NewClient("http://unused.invalid", "").Query(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "unparseable body",
			status:     http.StatusBadGateway,
			body:       "<html>bad gateway</html>",
			wantMsg:    "GraphQL error: 502 Bad Gateway",
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "graphql errors with 200",
			status:     http.StatusOK,
			body:       `{"data":null,"errors":[{"message":"field missing"},{"message":"not allowed"}]}`,
			wantMsg:    "GraphQL error: field missing; not allowed",
			wantStatus: http.StatusOK,
		},
		{
			name:       "graphql errors win over status",
			status:     http.StatusBadRequest,
			body:       `{"errors":[{"message":"syntax"}],"message":"ignored"}`,
			wantMsg:    "GraphQL error: syntax",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "status with message",
			status:     http.StatusUnauthorized,
			body:       `{"message":"token expired"}`,
			wantMsg:    "GraphQL error: 401 Unauthorized - token expired",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "status without message",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantMsg:    "GraphQL error: 500 Internal Server Error",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := NewClient(srv.URL, "").Query(context.Background(), ProjectsQuery, nil)
			require.Error(t, err)

			var terr *TransportError
			require.True(t, errors.As(err, &terr), "expected *TransportError, got %T", err)
			assert.Equal(t, tt.wantMsg, terr.Error())
			assert.Equal(t, tt.wantStatus, terr.StatusCode)
		})
	}
}

func TestClient_SingleAttempt(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewClient(srv.URL, "").Query(context.Background(), ProjectsQuery, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(srv.URL, "", WithTimeout(50*time.Millisecond))
	_, err := client.Query(context.Background(), ProjectsQuery, nil)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "secret-token").Query(context.Background(), ProjectsQuery, nil)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.NotContains(t, err.Error(), "secret-token")
}
