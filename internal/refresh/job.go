// internal/refresh/job.go
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "agent-catalog/internal/errors"
	"agent-catalog/internal/github"
	"agent-catalog/internal/model"
)

// Number of repositories to refresh in parallel.
const concurrency = 5

// Mode selects how many targets one invocation covers.
type Mode string

const (
	ModeAll Mode = "all"
	ModeOne Mode = "one"
)

// Options control a single refresh invocation.
type Options struct {
	Mode Mode
	Slug string
}

// TargetStore is the data-access collaborator of the job. ApplyUpdates is
// expected to be transactional: all updates commit or none do.
type TargetStore interface {
	ListTargets(ctx context.Context, slug string) ([]model.RefreshTarget, error)
	ApplyUpdates(ctx context.Context, updates []model.MetricsUpdate) error
}

// RepositoryFetcher queries the external repository API. A nil record with a
// nil error means the repository no longer exists or is inaccessible.
type RepositoryFetcher interface {
	QueryRepository(ctx context.Context, owner, name string) (*github.RepositoryRecord, error)
}

// Job orchestrates a batch of per-repository metric refreshes. No single
// repository failure aborts the batch: failures are recorded per target and
// reported in the summary.
type Job struct {
	store   TargetStore
	fetcher RepositoryFetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewJob(store TargetStore, fetcher RepositoryFetcher, logger *slog.Logger) *Job {
	return &Job{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// outcome is the per-target result. Exactly one field is set.
type outcome struct {
	update  *model.MetricsUpdate
	failure string
}

// Run refreshes every listed target and applies the successfully mapped
// updates as one batch. Failed targets are reported, not retried; re-running
// the job is the retry policy.
func (j *Job) Run(ctx context.Context, opts Options) (model.RefreshSummary, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAll
	}

	slug := ""
	if mode == ModeOne {
		if opts.Slug == "" {
			return model.RefreshSummary{}, &apperrors.ErrMissingSlug{}
		}
		slug = opts.Slug
	}

	targets, err := j.store.ListTargets(ctx, slug)
	if err != nil {
		return model.RefreshSummary{}, fmt.Errorf("failed to list refresh targets: %w", err)
	}
	j.logger.Info("Starting metrics refresh", "targets", len(targets), "concurrency", concurrency)

	// Results land in a slice indexed by target position, so attribution and
	// summary ordering stay deterministic regardless of completion order.
	results := make([]outcome, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, target := range targets {
		g.Go(func() error {
			results[i] = j.refreshTarget(gctx, target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.RefreshSummary{}, err
	}

	updates := make([]model.MetricsUpdate, 0, len(targets))
	var errs []string
	for _, result := range results {
		if result.update != nil {
			updates = append(updates, *result.update)
			continue
		}
		errs = append(errs, result.failure)
	}

	if len(updates) > 0 {
		if err := j.store.ApplyUpdates(ctx, updates); err != nil {
			return model.RefreshSummary{}, fmt.Errorf("failed to apply metric updates: %w", err)
		}
	}

	summary := model.RefreshSummary{
		Processed: len(targets),
		Updated:   len(updates),
		Failed:    len(errs),
		Errors:    errs,
	}
	j.logger.Info("Metrics refresh complete",
		"processed", summary.Processed, "updated", summary.Updated, "failed", summary.Failed)

	return summary, nil
}

// refreshTarget queries and maps one repository. Any error becomes a recorded
// failure attributed to the target; nothing propagates past the batch.
func (j *Job) refreshTarget(ctx context.Context, target model.RefreshTarget) outcome {
	repoPath := target.RepoOwner + "/" + target.RepoName
	logger := j.logger.With("slug", target.Slug, "repo", repoPath)

	record, err := j.fetcher.QueryRepository(ctx, target.RepoOwner, target.RepoName)
	if err != nil {
		logger.Warn("Repository query failed", "error", err)
		return outcome{failure: fmt.Sprintf("%s: %s", repoPath, err.Error())}
	}
	if record == nil {
		logger.Warn("Repository not found")
		return outcome{failure: fmt.Sprintf("%s: repository not found", repoPath)}
	}

	metrics, err := github.MapRepository(record, j.now())
	if err != nil {
		logger.Warn("Repository mapping failed", "error", err)
		return outcome{failure: fmt.Sprintf("%s: %s", repoPath, err.Error())}
	}

	logger.Debug("Repository mapped", "health_score", metrics.HealthScore)
	return outcome{update: &model.MetricsUpdate{ID: target.ID, ProjectMetrics: metrics}}
}
