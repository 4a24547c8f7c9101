// internal/seed/importer.go
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	apperrors "agent-catalog/internal/errors"
	"agent-catalog/internal/model"
)

var (
	repoPattern    = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	nonAlphanum    = regexp.MustCompile(`[^a-z0-9]+`)
	surroundingHyp = regexp.MustCompile(`^-+|-+$`)
)

// ProjectWriter is the store dependency of the importer.
type ProjectWriter interface {
	UpsertProjects(ctx context.Context, rows []model.ProjectUpsert) error
}

// Importer loads a seed dataset file and bulk-upserts it into the catalog.
type Importer struct {
	store  ProjectWriter
	logger *slog.Logger
}

func NewImporter(store ProjectWriter, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// Run reads, validates, maps, and upserts the seed file. Validation is
// all-or-nothing: no store contact happens unless every record is well formed.
func (i *Importer) Run(ctx context.Context, path string) (int, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	records, err := ParseRecords(payload)
	if err != nil {
		return 0, err
	}

	rows := make([]model.ProjectUpsert, len(records))
	for idx, record := range records {
		row, err := MapRecord(record)
		if err != nil {
			return 0, err
		}
		rows[idx] = row
	}

	if err := i.store.UpsertProjects(ctx, rows); err != nil {
		return 0, err
	}

	i.logger.Info("Seed import complete", "imported", len(rows), "path", path)
	return len(rows), nil
}

// MapRecord maps one validated seed record to a catalog row. The health score
// is initialized to 0: seed data lacks the freshness signal a meaningful
// score needs, so the first refresh computes it.
func MapRecord(record Record) (model.ProjectUpsert, error) {
	owner, name, err := parseRepository(record.Repo)
	if err != nil {
		return model.ProjectUpsert{}, err
	}

	pushedAt, err := parseSeedDate(record.PushedAt)
	if err != nil {
		return model.ProjectUpsert{}, &apperrors.ErrInvalidDate{Field: "pushed_at", Value: record.PushedAt}
	}

	return model.ProjectUpsert{
		Name:         name,
		Slug:         Slugify(owner, name),
		Description:  toNullableText(record.Description),
		RepoOwner:    owner,
		RepoName:     name,
		RepoURL:      fmt.Sprintf("https://github.com/%s/%s", owner, name),
		WebsiteURL:   toNullableText(record.Homepage),
		Language:     toNullableText(record.Language),
		Engine:       toNullableText(record.Engine),
		License:      normalizeLicense(record.License),
		Topics:       normalizeTopics(record.Topics),
		Stars:        record.Stars,
		Contributors: record.Contributors,
		Forks:        record.Forks,
		Watchers:     record.Watchers,
		LastCommitAt: &pushedAt,
		HealthScore:  0,
	}, nil
}

// Slugify derives the canonical unique slug from an owner/name pair:
// lowercase, non-alphanumeric runs collapsed to single hyphens, surrounding
// hyphens trimmed.
func Slugify(owner, name string) string {
	slug := strings.ToLower(owner + "-" + name)
	slug = nonAlphanum.ReplaceAllString(slug, "-")
	return surroundingHyp.ReplaceAllString(slug, "")
}

func parseRepository(repo string) (owner, name string, err error) {
	trimmed := strings.TrimSpace(repo)
	if !repoPattern.MatchString(trimmed) {
		return "", "", &apperrors.ErrInvalidRepoFormat{Repo: repo}
	}

	parts := strings.SplitN(trimmed, "/", 2)
	return strings.ToLower(parts[0]), strings.ToLower(parts[1]), nil
}

func toNullableText(value string) *string {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func normalizeTopics(topics []string) []string {
	normalized := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		t := strings.ToLower(strings.TrimSpace(topic))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		normalized = append(normalized, t)
	}
	return normalized
}

func normalizeLicense(license *string) *string {
	if license == nil {
		return nil
	}
	normalized := strings.TrimSpace(*license)
	if normalized == "" || strings.EqualFold(normalized, "NOASSERTION") {
		return nil
	}
	return &normalized
}
