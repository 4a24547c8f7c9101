// internal/model/models.go
package model

import "time"

// Project is the canonical catalog row for one AI-agent project.
type Project struct {
	ID            int64
	Name          string
	Slug          string
	Tagline       *string
	Description   *string
	RepoOwner     string
	RepoName      string
	RepoURL       string
	WebsiteURL    *string
	FaviconURL    *string
	ScreenshotURL *string
	Language      *string
	Engine        *string
	License       *string
	Topics        []string
	Stars         int
	Contributors  int
	Forks         int
	Watchers      int
	LastCommitAt  *time.Time
	HealthScore   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectCard is the presentation subset of a Project served to listings.
type ProjectCard struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Tagline       *string    `json:"tagline"`
	Description   *string    `json:"description"`
	Stars         int        `json:"stars"`
	Contributors  int        `json:"contributors"`
	Forks         int        `json:"forks"`
	Watchers      int        `json:"watchers"`
	LastCommitAt  *time.Time `json:"lastCommitAt"`
	Language      *string    `json:"language"`
	Engine        *string    `json:"engine"`
	License       *string    `json:"license"`
	Topics        []string   `json:"topics"`
	HealthScore   int        `json:"healthScore"`
	WebsiteURL    *string    `json:"websiteUrl"`
	RepoURL       string     `json:"repoUrl"`
	FaviconURL    *string    `json:"faviconUrl"`
	ScreenshotURL *string    `json:"screenshotUrl"`
}

// ProjectMetrics is the automation-owned payload produced by mapping a live
// GitHub repository, applied wholesale on every successful refresh.
type ProjectMetrics struct {
	Description  *string
	WebsiteURL   *string
	License      *string
	Topics       []string
	Stars        int
	Forks        int
	Watchers     int
	Contributors int
	LastCommitAt *time.Time
	HealthScore  int
}

// RefreshTarget identifies one catalog row due for a metrics refresh.
type RefreshTarget struct {
	ID        int64
	Slug      string
	RepoOwner string
	RepoName  string
}

// MetricsUpdate pairs a target row id with its freshly mapped metrics.
type MetricsUpdate struct {
	ID int64
	ProjectMetrics
}

// RefreshSummary reports the outcome of one refresh invocation.
// Errors holds one "<owner>/<name>: <reason>" line per failed target.
type RefreshSummary struct {
	Processed int
	Updated   int
	Failed    int
	Errors    []string
}

// ProjectUpsert is a full catalog row as produced by the seed importer,
// keyed on Slug for insert-or-update.
type ProjectUpsert struct {
	Name          string
	Slug          string
	Tagline       *string
	Description   *string
	RepoOwner     string
	RepoName      string
	RepoURL       string
	WebsiteURL    *string
	FaviconURL    *string
	ScreenshotURL *string
	Language      *string
	Engine        *string
	License       *string
	Topics        []string
	Stars         int
	Contributors  int
	Forks         int
	Watchers      int
	LastCommitAt  *time.Time
	HealthScore   int
}
