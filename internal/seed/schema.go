// internal/seed/schema.go
package seed

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	apperrors "agent-catalog/internal/errors"
)

// Record is one validated entry of the seed dataset.
type Record struct {
	Repo         string
	Stars        int
	Forks        int
	Watchers     int
	Contributors int
	Homepage     string
	Language     string
	Description  string
	PushedAt     string
	License      *string
	Category     string
	Engine       string
	Topics       []string
}

// ParseRecords validates the raw seed payload with zero tolerance for shape
// mismatches. Any failure aborts the whole batch with an error naming the
// offending path, e.g. "[3].stars".
func ParseRecords(payload []byte) ([]Record, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("invalid seed payload: %w", err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &apperrors.ErrSeedValidation{
			Path:   "$",
			Reason: fmt.Sprintf("expected array, got %T", raw),
		}
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("[%d]", i)

		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &apperrors.ErrSeedValidation{Path: path, Reason: "expected object"}
		}

		record, err := parseRecord(obj, path)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRecord(obj map[string]any, path string) (Record, error) {
	var record Record
	var err error

	if record.Repo, err = expectString(obj, "repo", path); err != nil {
		return Record{}, err
	}
	if record.Stars, err = expectCount(obj, "stars", path); err != nil {
		return Record{}, err
	}
	if record.Forks, err = expectCount(obj, "forks_count", path); err != nil {
		return Record{}, err
	}
	if record.Watchers, err = expectCount(obj, "watchers_count", path); err != nil {
		return Record{}, err
	}
	if record.Contributors, err = expectCount(obj, "contributors_count", path); err != nil {
		return Record{}, err
	}
	if record.Homepage, err = expectString(obj, "homepage", path); err != nil {
		return Record{}, err
	}
	if record.Language, err = expectString(obj, "language", path); err != nil {
		return Record{}, err
	}
	if record.Description, err = expectString(obj, "description", path); err != nil {
		return Record{}, err
	}
	if record.PushedAt, err = expectDate(obj, "pushed_at", path); err != nil {
		return Record{}, err
	}
	if record.License, err = expectLicense(obj, path); err != nil {
		return Record{}, err
	}
	if record.Category, err = expectString(obj, "category", path); err != nil {
		return Record{}, err
	}
	if record.Engine, err = expectString(obj, "engine", path); err != nil {
		return Record{}, err
	}
	if record.Topics, err = expectTopics(obj, path); err != nil {
		return Record{}, err
	}

	return record, nil
}

func expectString(obj map[string]any, key, path string) (string, error) {
	value, ok := obj[key].(string)
	if !ok {
		return "", &apperrors.ErrSeedValidation{
			Path:   path + "." + key,
			Reason: fmt.Sprintf("expected string, got %T", obj[key]),
		}
	}
	return value, nil
}

// expectCount accepts a finite non-negative JSON number, truncated toward zero.
func expectCount(obj map[string]any, key, path string) (int, error) {
	value, ok := obj[key].(float64)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &apperrors.ErrSeedValidation{
			Path:   path + "." + key,
			Reason: fmt.Sprintf("expected finite number, got %v", obj[key]),
		}
	}
	if value < 0 {
		return 0, &apperrors.ErrSeedValidation{
			Path:   path + "." + key,
			Reason: fmt.Sprintf("expected non-negative number, got %v", value),
		}
	}
	return int(value), nil
}

func expectDate(obj map[string]any, key, path string) (string, error) {
	raw, err := expectString(obj, key, path)
	if err != nil {
		return "", err
	}
	if _, parseErr := parseSeedDate(raw); parseErr != nil {
		return "", &apperrors.ErrSeedValidation{
			Path:   path + "." + key,
			Reason: fmt.Sprintf("expected ISO date string, got %s", raw),
		}
	}
	return raw, nil
}

func expectLicense(obj map[string]any, path string) (*string, error) {
	switch value := obj["license"].(type) {
	case nil:
		return nil, nil
	case string:
		return &value, nil
	default:
		return nil, &apperrors.ErrSeedValidation{
			Path:   path + ".license",
			Reason: fmt.Sprintf("expected string or null, got %T", value),
		}
	}
}

func expectTopics(obj map[string]any, path string) ([]string, error) {
	raw, ok := obj["topics"].([]any)
	if !ok {
		return nil, &apperrors.ErrSeedValidation{
			Path:   path + ".topics",
			Reason: fmt.Sprintf("expected string array, got %T", obj["topics"]),
		}
	}

	topics := make([]string, 0, len(raw))
	for i, item := range raw {
		topic, ok := item.(string)
		if !ok {
			return nil, &apperrors.ErrSeedValidation{
				Path:   fmt.Sprintf("%s.topics[%d]", path, i),
				Reason: fmt.Sprintf("expected string, got %T", item),
			}
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

// parseSeedDate accepts full RFC3339 timestamps and bare dates, both of which
// occur in exported seed data.
func parseSeedDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
