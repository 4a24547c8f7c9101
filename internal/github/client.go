// internal/github/client.go
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	apperrors "agent-catalog/internal/errors"
)

// RepositoryRecord is the raw external repository snapshot consumed by the
// mapper. Timestamps stay as the wire-format strings so that parse failures
// are attributed by the mapper, not swallowed here.
type RepositoryRecord struct {
	Name          string
	NameWithOwner string
	Description   *string
	URL           string
	HomepageURL   *string
	CreatedAt     string
	PushedAt      *string
	Stars         int
	Forks         int
	Watchers      int
	Contributors  int
	License       *string
	Topics        []string
}

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance. The token is
// required: refreshing metrics unauthenticated would hit the anonymous rate
// limit almost immediately and produce confusing per-target failures.
func NewClient(token string, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &apperrors.ErrMissingToken{}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}, nil
}

// QueryRepository fetches a repository snapshot including its contributor
// count. Returns (nil, nil) when the repository does not exist or is
// inaccessible, so callers can distinguish "gone" from a transport failure.
func (c *Client) QueryRepository(ctx context.Context, owner, name string) (*RepositoryRecord, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	contributors, err := c.countContributors(ctx, owner, name)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	return toRepositoryRecord(repo, contributors), nil
}

// countContributors derives the contributor count from the pagination of a
// one-per-page listing: with per_page=1 the last page number is the count.
func (c *Client) countContributors(ctx context.Context, owner, name string) (int, error) {
	opts := &github.ListContributorsOptions{
		Anon:        "true",
		ListOptions: github.ListOptions{PerPage: 1},
	}

	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0, err
	}

	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(contributors), nil
}

// toRepositoryRecord translates a github.Repository to the mapper's record.
func toRepositoryRecord(r *github.Repository, contributors int) *RepositoryRecord {
	record := &RepositoryRecord{
		Name:          r.GetName(),
		NameWithOwner: r.GetFullName(),
		Description:   r.Description,
		URL:           r.GetHTMLURL(),
		HomepageURL:   r.Homepage,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Watchers:      r.GetSubscribersCount(),
		Contributors:  contributors,
		Topics:        r.Topics,
	}

	if created := r.CreatedAt; created != nil {
		record.CreatedAt = created.UTC().Format(time.RFC3339)
	}
	if pushed := r.PushedAt; pushed != nil {
		v := pushed.UTC().Format(time.RFC3339)
		record.PushedAt = &v
	}
	if license := r.GetLicense(); license != nil {
		record.License = license.SPDXID
	}

	return record
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) &&
		ghErr.Response != nil &&
		ghErr.Response.StatusCode == http.StatusNotFound
}

// translateError remaps authentication failures to ErrTokenRejected so the
// operator sees the HTTP status and response body instead of a generic 4xx.
func translateError(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return &apperrors.ErrTokenRejected{
				StatusCode: status,
				Body:       ghErr.Message,
			}
		}
	}
	return err
}
