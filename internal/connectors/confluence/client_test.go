package confluence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:  srv.URL,
		Username: "ada@example.com",
		APIKey:   "secret",
		Timeout:  5 * time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg, logger.Discard())
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/content", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ENG", q.Get("spaceKey"))
		assert.Equal(t, "page", q.Get("type"))
		assert.Equal(t, "100", q.Get("start"))
		assert.Equal(t, "50", q.Get("limit"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ada@example.com", user)
		assert.Equal(t, "secret", pass)

		writeJSON(t, w, map[string]any{
			"results": []map[string]any{
				{"id": "1", "type": "page", "title": "One"},
				{"id": "2", "type": "page", "title": "Two"},
			},
			"start": 100, "limit": 50, "size": 2,
		})
	})

	pages, err := c.ListPages(context.Background(), "ENG", 100, 50)

	require.NoError(t, err)
	assert.Equal(t, []domain.PageSummary{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}, pages)
}

func TestListPages_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"results": []any{}})
	})

	pages, err := c.ListPages(context.Background(), "ENG", 0, 10)

	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestGetPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/content/42", r.URL.Path)
		assert.Equal(t, "body.storage,version,space", r.URL.Query().Get("expand"))
		writeJSON(t, w, map[string]any{
			"id":    "42",
			"title": "Runbook",
			"space": map[string]any{"key": "ENG"},
			"body":  map[string]any{"storage": map[string]any{"value": "<p>hi</p>", "representation": "storage"}},
			"version": map[string]any{
				"number": 7,
				"when":   "2024-03-01T10:00:00.000Z",
				"by":     map[string]any{"accountId": "acc-9", "displayName": "Grace"},
			},
		})
	})

	page, err := c.GetPage(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, &domain.RemotePage{
		ID:       "42",
		Title:    "Runbook",
		SpaceKey: "ENG",
		Body:     "<p>hi</p>",
		Version: domain.PageVersion{
			Number:     7,
			AuthorID:   "acc-9",
			AuthorName: "Grace",
			When:       "2024-03-01T10:00:00.000Z",
		},
	}, page)
}

func TestGetPage_MissingVersionAuthor(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"id": "1", "title": "Anon", "version": map[string]any{"number": 1}})
	})

	page, err := c.GetPage(context.Background(), "1")

	require.NoError(t, err)
	assert.Contains(t, domain.VersionHeader(page.Version), "'Author Name': 'Unknown User'")
}

func TestCountPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/search", r.URL.Path)
		assert.Equal(t, `space = "ENG" AND type = "page"`, r.URL.Query().Get("cql"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		writeJSON(t, w, map[string]any{"results": []any{}, "totalSize": 321})
	})

	n, err := c.CountPages(context.Background(), "ENG")

	require.NoError(t, err)
	assert.Equal(t, 321, n)
}

func TestFindPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") == "Runbook" {
			writeJSON(t, w, map[string]any{"results": []map[string]any{{"id": "42", "title": "Runbook"}}})
			return
		}
		writeJSON(t, w, map[string]any{"results": []any{}})
	})

	found, err := c.FindPage(context.Background(), "ENG", "Runbook")
	require.NoError(t, err)
	assert.Equal(t, "42", found.ID)

	_, err = c.FindPage(context.Background(), "ENG", "Missing")
	assert.True(t, IsNotFound(err))
}

func TestRateLimitResponse(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected *time.Duration
		wait     time.Duration
	}{
		{"absent", "", nil, time.Second},
		{"zero", "0", durationPtr(0), 0},
		{"seconds", "7", durationPtr(7 * time.Second), 7 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if tc.header != "" {
					w.Header().Set("Retry-After", tc.header)
				}
				w.WriteHeader(http.StatusTooManyRequests)
			})

			_, err := c.ListPages(context.Background(), "ENG", 0, 10)

			rl, ok := domain.AsRateLimit(err)
			require.True(t, ok, "expected rate limit error, got %v", err)
			assert.Equal(t, http.StatusTooManyRequests, rl.StatusCode)
			assert.Equal(t, tc.expected, rl.RetryAfter)
			assert.Equal(t, tc.wait, rl.Wait())
			assert.True(t, IsRateLimited(err))
			assert.ErrorIs(t, err, domain.ErrRateLimited)
		})
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, IsNotFound},
		{"forbidden", http.StatusForbidden, IsForbidden},
		{"unauthorized", http.StatusUnauthorized, IsUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"statusCode":0,"message":"nope"}`))
			})

			_, err := c.GetPage(context.Background(), "1")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.True(t, tc.check(err))
			assert.False(t, IsRateLimited(err))
		})
	}
}

func TestServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListPages(context.Background(), "ENG", 0, 10)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestBearerToken(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer pat-123", r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{"results": []any{}})
	}, func(cfg *Config) {
		cfg.Username = ""
		cfg.APIKey = ""
		cfg.Token = "pat-123"
	})

	_, err := c.ListPages(context.Background(), "ENG", 0, 10)

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"results": []any{}})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPages(ctx, "ENG", 0, 10)

	assert.ErrorIs(t, err, context.Canceled)
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
