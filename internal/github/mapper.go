// internal/github/mapper.go
package github

import (
	"fmt"
	"strings"
	"time"

	apperrors "agent-catalog/internal/errors"
	"agent-catalog/internal/model"
	"agent-catalog/internal/score"
)

// MapRepository converts a raw repository record into the canonical metrics
// payload: trims free text, dedupes topics, resolves the license, parses
// timestamps, and computes the health score against now.
func MapRepository(r *RepositoryRecord, now time.Time) (model.ProjectMetrics, error) {
	if strings.TrimSpace(r.CreatedAt) == "" {
		return model.ProjectMetrics{}, fmt.Errorf("repository %s is missing createdAt", r.NameWithOwner)
	}

	createdAt, err := parseDate("createdAt", r.CreatedAt)
	if err != nil {
		return model.ProjectMetrics{}, err
	}

	var pushedAt *time.Time
	if r.PushedAt != nil && strings.TrimSpace(*r.PushedAt) != "" {
		t, err := parseDate("pushedAt", *r.PushedAt)
		if err != nil {
			return model.ProjectMetrics{}, err
		}
		pushedAt = &t
	}

	return model.ProjectMetrics{
		Description:  normalizeText(r.Description),
		WebsiteURL:   normalizeText(r.HomepageURL),
		License:      normalizeLicense(r.License),
		Topics:       normalizeTopics(r.Topics),
		Stars:        r.Stars,
		Forks:        r.Forks,
		Watchers:     r.Watchers,
		Contributors: r.Contributors,
		LastCommitAt: pushedAt,
		HealthScore: score.Calculate(score.Input{
			Stars:        r.Stars,
			Forks:        r.Forks,
			Contributors: r.Contributors,
			Watchers:     r.Watchers,
			CreatedAt:    createdAt,
			PushedAt:     pushedAt,
		}, now),
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &apperrors.ErrInvalidDate{Field: field, Value: value}
	}
	return t, nil
}

// normalizeText trims a nullable string; empty or whitespace-only becomes nil.
func normalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := strings.TrimSpace(*value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// normalizeTopics lowercases and trims topics, drops empties, and dedupes
// while preserving first-seen order.
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

// normalizeLicense trims the SPDX identifier and collapses NOASSERTION to
// absent. Valid identifiers are stored verbatim; only the NOASSERTION
// comparison is case-insensitive.
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
