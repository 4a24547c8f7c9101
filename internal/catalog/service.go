// internal/catalog/service.go
package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"agent-catalog/internal/model"
)

// Store is the persistence dependency of the query service. SelectProjects
// returns rows already filtered and ordered by health score descending, stars
// descending, slug ascending.
type Store interface {
	SelectProjects(ctx context.Context, filters Filters, now time.Time) ([]model.Project, error)
	DistinctLanguages(ctx context.Context) ([]string, error)
	DistinctEngines(ctx context.Context) ([]string, error)
	StarsRange(ctx context.Context) (min, max int, err error)
}

// StarsRange is the global min/max star count across the catalog.
type StarsRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Facets are the distinct filterable values offered to narrow the catalog,
// always computed over the full unfiltered catalog.
type Facets struct {
	Languages  []string   `json:"languages"`
	Engines    []string   `json:"engines"`
	Stars      StarsRange `json:"stars"`
	Activities []Activity `json:"activities"`
}

// HomepageData bundles everything the catalog page needs for one render.
type HomepageData struct {
	Projects []model.ProjectCard `json:"projects"`
	Facets   Facets              `json:"facets"`
	Filters  Filters             `json:"filters"`
}

// Service filters, ranks, and facets the persisted catalog.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ListProjects returns the filtered catalog in its deterministic display order.
func (s *Service) ListProjects(ctx context.Context, filters Filters) ([]model.ProjectCard, error) {
	rows, err := s.store.SelectProjects(ctx, filters, s.now())
	if err != nil {
		return nil, err
	}

	cards := make([]model.ProjectCard, len(rows))
	for i, row := range rows {
		cards[i] = toProjectCard(row)
	}
	return cards, nil
}

// Facets computes the filter facets over the full catalog.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	var facets Facets

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		languages, err := s.store.DistinctLanguages(gctx)
		facets.Languages = languages
		return err
	})
	g.Go(func() error {
		engines, err := s.store.DistinctEngines(gctx)
		facets.Engines = engines
		return err
	})
	g.Go(func() error {
		min, max, err := s.store.StarsRange(gctx)
		facets.Stars = StarsRange{Min: min, Max: max}
		return err
	})
	if err := g.Wait(); err != nil {
		return Facets{}, err
	}

	if facets.Languages == nil {
		facets.Languages = []string{}
	}
	if facets.Engines == nil {
		facets.Engines = []string{}
	}
	facets.Activities = Activities()
	return facets, nil
}

// HomepageData composes the filtered listing with the unfiltered facets, so
// the UI can offer options beyond the current filter.
func (s *Service) HomepageData(ctx context.Context, filters Filters) (HomepageData, error) {
	data := HomepageData{Filters: filters}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.ListProjects(gctx, filters)
		data.Projects = projects
		return err
	})
	g.Go(func() error {
		facets, err := s.Facets(gctx)
		data.Facets = facets
		return err
	})
	if err := g.Wait(); err != nil {
		return HomepageData{}, err
	}

	return data, nil
}

func toProjectCard(row model.Project) model.ProjectCard {
	return model.ProjectCard{
		Name:          row.Name,
		Slug:          row.Slug,
		Tagline:       row.Tagline,
		Description:   row.Description,
		Stars:         row.Stars,
		Contributors:  row.Contributors,
		Forks:         row.Forks,
		Watchers:      row.Watchers,
		LastCommitAt:  row.LastCommitAt,
		Language:      row.Language,
		Engine:        row.Engine,
		License:       row.License,
		Topics:        row.Topics,
		HealthScore:   row.HealthScore,
		WebsiteURL:    row.WebsiteURL,
		RepoURL:       row.RepoURL,
		FaviconURL:    row.FaviconURL,
		ScreenshotURL: row.ScreenshotURL,
	}
}
