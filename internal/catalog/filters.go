// internal/catalog/filters.go
package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Activity is a coarse recency bucket derived from time since last commit.
type Activity string

const (
	ActivityAll    Activity = "all"
	ActivityActive Activity = "active"
	ActivityRecent Activity = "recent"
	ActivityStale  Activity = "stale"
)

// Activity window boundaries in days.
const (
	ActiveWindowDays = 30
	RecentWindowDays = 90
)

// Activities lists the bucket names in their presentation order.
func Activities() []Activity {
	return []Activity{ActivityAll, ActivityActive, ActivityRecent, ActivityStale}
}

// Filters holds the active catalog predicates. Nil means "not filtering".
type Filters struct {
	Language *string  `json:"language"`
	Engine   *string  `json:"engine"`
	StarsMin *int     `json:"starsMin"`
	StarsMax *int     `json:"starsMax"`
	Activity Activity `json:"activity"`
}

// ParseFilters reads catalog filters from query parameters. Blank text
// resolves to absent, invalid or negative numbers resolve to absent, an
// inverted stars range discards both bounds, and unknown activity values
// fall back to "all".
func ParseFilters(values url.Values) Filters {
	filters := Filters{
		Language: parseOptionalText(values.Get("language")),
		Engine:   parseOptionalText(values.Get("engine")),
		StarsMin: parseNonNegativeInt(values.Get("starsMin")),
		StarsMax: parseNonNegativeInt(values.Get("starsMax")),
		Activity: parseActivity(values.Get("activity")),
	}

	if filters.StarsMin != nil && filters.StarsMax != nil && *filters.StarsMin > *filters.StarsMax {
		filters.StarsMin = nil
		filters.StarsMax = nil
	}

	return filters
}

func parseOptionalText(value string) *string {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func parseNonNegativeInt(value string) *int {
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}

func parseActivity(value string) Activity {
	switch Activity(value) {
	case ActivityActive, ActivityRecent, ActivityStale:
		return Activity(value)
	default:
		return ActivityAll
	}
}
