// internal/github/mapper_test.go
package github

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "agent-catalog/internal/errors"
)

func strptr(s string) *string { return &s }

func testRecord() *RepositoryRecord {
	return &RepositoryRecord{
		Name:          "repo",
		NameWithOwner: "test/repo",
		Description:   strptr("  An agent framework  "),
		URL:           "https://github.com/test/repo",
		HomepageURL:   strptr("https://example.com"),
		CreatedAt:     "2024-05-01T00:00:00Z",
		PushedAt:      strptr("2026-02-10T12:00:00Z"),
		Stars:         120,
		Forks:         30,
		Watchers:      12,
		Contributors:  37,
		License:       strptr("MIT"),
		Topics:        []string{"AI", "ai", "  ", "Agents"},
	}
}

func TestMapRepository(t *testing.T) {
	now := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)

	t.Run("normalizes text, topics, and license", func(t *testing.T) {
		metrics, err := MapRepository(testRecord(), now)

		require.NoError(t, err)
		require.NotNil(t, metrics.Description)
		assert.Equal(t, "An agent framework", *metrics.Description)
		assert.Equal(t, []string{"ai", "agents"}, metrics.Topics)
		require.NotNil(t, metrics.License)
		assert.Equal(t, "MIT", *metrics.License)
		assert.Equal(t, 120, metrics.Stars)
		assert.Equal(t, 37, metrics.Contributors)
		require.NotNil(t, metrics.LastCommitAt)
		assert.Equal(t, time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC), metrics.LastCommitAt.UTC())
		assert.GreaterOrEqual(t, metrics.HealthScore, 0)
	})

	t.Run("empty description and homepage become absent", func(t *testing.T) {
		record := testRecord()
		record.Description = strptr("   ")
		record.HomepageURL = nil

		metrics, err := MapRepository(record, now)

		require.NoError(t, err)
		assert.Nil(t, metrics.Description)
		assert.Nil(t, metrics.WebsiteURL)
	})

	t.Run("NOASSERTION license collapses to absent regardless of case", func(t *testing.T) {
		for _, value := range []string{"NOASSERTION", "NoAssertion", "noassertion", "  "} {
			record := testRecord()
			record.License = strptr(value)

			metrics, err := MapRepository(record, now)

			require.NoError(t, err)
			assert.Nil(t, metrics.License, "license %q should be absent", value)
		}
	})

	t.Run("valid SPDX identifiers are stored verbatim", func(t *testing.T) {
		record := testRecord()
		record.License = strptr("Apache-2.0")

		metrics, err := MapRepository(record, now)

		require.NoError(t, err)
		require.NotNil(t, metrics.License)
		assert.Equal(t, "Apache-2.0", *metrics.License)
	})

	t.Run("missing createdAt is fatal", func(t *testing.T) {
		record := testRecord()
		record.CreatedAt = ""

		_, err := MapRepository(record, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "test/repo")
		assert.Contains(t, err.Error(), "createdAt")
	})

	t.Run("unparseable date names the offending value", func(t *testing.T) {
		record := testRecord()
		record.PushedAt = strptr("not-a-date")

		_, err := MapRepository(record, now)

		require.Error(t, err)
		var invalid *apperrors.ErrInvalidDate
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "pushedAt", invalid.Field)
		assert.Equal(t, "not-a-date", invalid.Value)
	})

	t.Run("missing pushedAt maps to absent last commit", func(t *testing.T) {
		record := testRecord()
		record.PushedAt = nil

		metrics, err := MapRepository(record, now)

		require.NoError(t, err)
		assert.Nil(t, metrics.LastCommitAt)
	})

	t.Run("deterministic for a fixed now", func(t *testing.T) {
		first, err := MapRepository(testRecord(), now)
		require.NoError(t, err)

		second, err := MapRepository(testRecord(), now)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
