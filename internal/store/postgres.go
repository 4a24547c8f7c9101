// internal/store/postgres.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agent-catalog/internal/catalog"
	apperrors "agent-catalog/internal/errors"
	"agent-catalog/internal/model"
)

// Postgres persists the project catalog. It serves all three write/read
// paths: seed upserts, refresh metric updates, and catalog queries.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

const upsertProjectSQL = `
INSERT INTO projects (
	name, slug, tagline, description,
	repo_owner, repo_name, repo_url,
	website_url, favicon_url, screenshot_url,
	language, engine, license, topics,
	stars, contributors, forks, watchers,
	last_commit_at, health_score, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now()
)
ON CONFLICT (slug) DO UPDATE SET
	name = excluded.name,
	description = excluded.description,
	repo_owner = excluded.repo_owner,
	repo_name = excluded.repo_name,
	repo_url = excluded.repo_url,
	website_url = excluded.website_url,
	language = excluded.language,
	engine = excluded.engine,
	license = excluded.license,
	topics = excluded.topics,
	stars = excluded.stars,
	contributors = excluded.contributors,
	forks = excluded.forks,
	watchers = excluded.watchers,
	last_commit_at = excluded.last_commit_at,
	health_score = excluded.health_score,
	updated_at = now()`

// UpsertProjects bulk-inserts seed rows keyed on slug. Editorial columns
// (tagline, favicon_url, screenshot_url) are written on insert only and left
// untouched on conflict so re-imports never clobber curation.
func (p *Postgres) UpsertProjects(ctx context.Context, rows []model.ProjectUpsert) error {
	if len(rows) == 0 {
		return &apperrors.ErrEmptyBatch{}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // no-op once committed

	for _, row := range rows {
		topics, err := topicsJSON(row.Topics)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, upsertProjectSQL,
			row.Name, row.Slug, row.Tagline, row.Description,
			row.RepoOwner, row.RepoName, row.RepoURL,
			row.WebsiteURL, row.FaviconURL, row.ScreenshotURL,
			row.Language, row.Engine, row.License, topics,
			row.Stars, row.Contributors, row.Forks, row.Watchers,
			row.LastCommitAt, row.HealthScore,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert project %s: %w", row.Slug, err)
		}
	}

	return tx.Commit(ctx)
}

// ListTargets returns the refresh targets, optionally narrowed to one slug.
func (p *Postgres) ListTargets(ctx context.Context, slug string) ([]model.RefreshTarget, error) {
	query := `SELECT id, slug, repo_owner, repo_name FROM projects`
	var args []any
	if slug != "" {
		query += ` WHERE slug = $1`
		args = append(args, slug)
	}
	query += ` ORDER BY id`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []model.RefreshTarget
	for rows.Next() {
		var t model.RefreshTarget
		if err := rows.Scan(&t.ID, &t.Slug, &t.RepoOwner, &t.RepoName); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

const applyMetricsSQL = `
UPDATE projects SET
	description = $2,
	website_url = $3,
	license = $4,
	topics = $5,
	stars = $6,
	forks = $7,
	watchers = $8,
	contributors = $9,
	last_commit_at = $10,
	health_score = $11,
	updated_at = now()
WHERE id = $1`

// ApplyUpdates writes a batch of metric payloads in one transaction: either
// every update commits or none do.
func (p *Postgres) ApplyUpdates(ctx context.Context, updates []model.MetricsUpdate) error {
	if len(updates) == 0 {
		return &apperrors.ErrEmptyBatch{}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, update := range updates {
		topics, err := topicsJSON(update.Topics)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, applyMetricsSQL,
			update.ID,
			update.Description, update.WebsiteURL, update.License, topics,
			update.Stars, update.Forks, update.Watchers, update.Contributors,
			update.LastCommitAt, update.HealthScore,
		)
		if err != nil {
			return fmt.Errorf("failed to update project %d: %w", update.ID, err)
		}
	}

	return tx.Commit(ctx)
}

const projectColumns = `
	id, name, slug, tagline, description,
	repo_owner, repo_name, repo_url,
	website_url, favicon_url, screenshot_url,
	language, engine, license, topics,
	stars, contributors, forks, watchers,
	last_commit_at, health_score, created_at, updated_at`

// SelectProjects returns the filtered catalog ordered by health score
// descending, stars descending, slug ascending. Slug uniqueness makes the
// order a strict total order.
func (p *Postgres) SelectProjects(ctx context.Context, filters catalog.Filters, now time.Time) ([]model.Project, error) {
	where, args := buildProjectsWhere(filters, now)
	query := `SELECT` + projectColumns + ` FROM projects` + where +
		` ORDER BY health_score DESC, stars DESC, slug ASC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// buildProjectsWhere turns active filters into a WHERE clause and its
// positional arguments. An empty filter set yields an empty clause.
func buildProjectsWhere(filters catalog.Filters, now time.Time) (string, []any) {
	var predicates []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Language != nil {
		predicates = append(predicates, "language = "+arg(*filters.Language))
	}
	if filters.Engine != nil {
		predicates = append(predicates, "engine = "+arg(*filters.Engine))
	}
	if filters.StarsMin != nil {
		predicates = append(predicates, "stars >= "+arg(*filters.StarsMin))
	}
	if filters.StarsMax != nil {
		predicates = append(predicates, "stars <= "+arg(*filters.StarsMax))
	}

	activeCutoff := now.Add(-catalog.ActiveWindowDays * 24 * time.Hour)
	recentCutoff := now.Add(-catalog.RecentWindowDays * 24 * time.Hour)

	switch filters.Activity {
	case catalog.ActivityActive:
		predicates = append(predicates, "last_commit_at >= "+arg(activeCutoff))
	case catalog.ActivityRecent:
		predicates = append(predicates,
			"last_commit_at >= "+arg(recentCutoff),
			"last_commit_at < "+arg(activeCutoff))
	case catalog.ActivityStale:
		predicates = append(predicates,
			"(last_commit_at IS NULL OR last_commit_at < "+arg(recentCutoff)+")")
	}

	if len(predicates) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(predicates, " AND "), args
}

// DistinctLanguages returns the sorted distinct non-null languages.
func (p *Postgres) DistinctLanguages(ctx context.Context) ([]string, error) {
	return p.distinctColumn(ctx, "language")
}

// DistinctEngines returns the sorted distinct non-null engines.
func (p *Postgres) DistinctEngines(ctx context.Context) ([]string, error) {
	return p.distinctColumn(ctx, "engine")
}

func (p *Postgres) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM projects WHERE %s IS NOT NULL ORDER BY %s ASC`,
		column, column, column)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

// StarsRange returns the global min/max star count, 0/0 for an empty catalog.
func (p *Postgres) StarsRange(ctx context.Context) (int, int, error) {
	var min, max int
	err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(MIN(stars), 0), COALESCE(MAX(stars), 0) FROM projects`,
	).Scan(&min, &max)
	return min, max, err
}

func scanProject(rows pgx.Rows) (model.Project, error) {
	var project model.Project
	var topics []byte

	err := rows.Scan(
		&project.ID, &project.Name, &project.Slug, &project.Tagline, &project.Description,
		&project.RepoOwner, &project.RepoName, &project.RepoURL,
		&project.WebsiteURL, &project.FaviconURL, &project.ScreenshotURL,
		&project.Language, &project.Engine, &project.License, &topics,
		&project.Stars, &project.Contributors, &project.Forks, &project.Watchers,
		&project.LastCommitAt, &project.HealthScore, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, err
	}

	if err := json.Unmarshal(topics, &project.Topics); err != nil {
		return model.Project{}, fmt.Errorf("failed to decode topics for %s: %w", project.Slug, err)
	}
	return project, nil
}

// topicsJSON encodes topics for the jsonb column; nil becomes an empty array.
func topicsJSON(topics []string) ([]byte, error) {
	if topics == nil {
		topics = []string{}
	}
	return json.Marshal(topics)
}
