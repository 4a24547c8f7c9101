// internal/github/client_test.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "agent-catalog/internal/errors"
)

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient("test-token", logger)
	require.NoError(t, err)

	// Point the wrapped client's base URL at the test server.
	testClient, err := github.NewClient(server.Client()).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	client.gh = testClient

	return client, server
}

func repositoryHandler(t *testing.T, contributorPages int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/repos/test/repo/contributors"):
			if contributorPages > 1 {
				w.Header().Set("Link", fmt.Sprintf(
					`<%s?anon=true&page=%d&per_page=1>; rel="last"`, r.URL.Path, contributorPages))
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[{"login": "alice"}]`)
		case strings.HasSuffix(r.URL.Path, "/repos/test/repo"):
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"id": 1,
				"name": "repo",
				"full_name": "test/repo",
				"owner": {"login": "test"},
				"html_url": "https://github.com/test/repo",
				"description": "An agent framework",
				"homepage": "https://example.com",
				"stargazers_count": 120,
				"forks_count": 30,
				"subscribers_count": 12,
				"topics": ["AI", "agents"],
				"license": {"spdx_id": "MIT"},
				"created_at": "2024-05-01T00:00:00Z",
				"pushed_at": "2026-02-10T12:00:00Z"
			}`)
		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestNewClient_RequiresToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_, err := NewClient("   ", logger)

	require.Error(t, err)
	var missing *apperrors.ErrMissingToken
	assert.ErrorAs(t, err, &missing)
	assert.Contains(t, strings.ToUpper(err.Error()), "GITHUB_TOKEN")
}

func TestClient_QueryRepository(t *testing.T) {
	t.Run("translates the repository and contributor count", func(t *testing.T) {
		client, _ := setupTestClient(t, repositoryHandler(t, 37))

		record, err := client.QueryRepository(context.Background(), "test", "repo")

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "test/repo", record.NameWithOwner)
		assert.Equal(t, 120, record.Stars)
		assert.Equal(t, 30, record.Forks)
		assert.Equal(t, 12, record.Watchers)
		assert.Equal(t, 37, record.Contributors)
		assert.Equal(t, []string{"AI", "agents"}, record.Topics)
		require.NotNil(t, record.License)
		assert.Equal(t, "MIT", *record.License)
		assert.Equal(t, "2024-05-01T00:00:00Z", record.CreatedAt)
		require.NotNil(t, record.PushedAt)
		assert.Equal(t, "2026-02-10T12:00:00Z", *record.PushedAt)
	})

	t.Run("single contributor page falls back to the page length", func(t *testing.T) {
		client, _ := setupTestClient(t, repositoryHandler(t, 1))

		record, err := client.QueryRepository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Equal(t, 1, record.Contributors)
	})

	t.Run("missing repository yields nil without error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, _ := setupTestClient(t, handler)

		record, err := client.QueryRepository(context.Background(), "test", "repo")

		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("401 is remapped to a token rejection with status and body", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"message": "Bad credentials"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, err := client.QueryRepository(context.Background(), "test", "repo")

		require.Error(t, err)
		var rejected *apperrors.ErrTokenRejected
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
		assert.Contains(t, rejected.Body, "Bad credentials")
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("server errors pass through untranslated", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, _ := setupTestClient(t, handler)

		_, err := client.QueryRepository(context.Background(), "test", "repo")

		require.Error(t, err)
		var rejected *apperrors.ErrTokenRejected
		assert.False(t, errors.As(err, &rejected), "server errors should not be remapped")
	})
}
