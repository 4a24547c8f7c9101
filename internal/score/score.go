// internal/score/score.go
package score

import (
	"math"
	"time"
)

const (
	// A repository with no recorded push is treated as 90 days stale,
	// which also caps the recency penalty.
	maxStaleDays = 90

	penaltyPerDay = 0.5

	starsWeight        = 0.25
	forksWeight        = 0.25
	watchersWeight     = 0.25
	contributorsWeight = 0.5
)

// Input holds the engagement snapshot a health score is computed from.
type Input struct {
	Stars        int
	Forks        int
	Contributors int
	Watchers     int
	CreatedAt    time.Time
	PushedAt     *time.Time
}

// Calculate turns engagement metrics, repository age, and commit recency into
// a single non-negative integer. Engagement is weighted and scaled by an age
// factor favoring younger repositories, then a recency penalty demotes
// abandoned ones. Pure: same input and now always yield the same score.
func Calculate(in Input, now time.Time) int {
	daysSinceLastCommit := maxStaleDays
	if in.PushedAt != nil {
		daysSinceLastCommit = daysBetween(now, *in.PushedAt)
	}
	if daysSinceLastCommit > maxStaleDays {
		daysSinceLastCommit = maxStaleDays
	}
	lastCommitPenalty := float64(daysSinceLastCommit) * penaltyPerDay

	ageInYears := yearsBetween(now, in.CreatedAt)
	ageFactor := 0.5 + 0.5/(1+float64(ageInYears)/5)

	weighted := (float64(in.Stars)*starsWeight +
		float64(in.Forks)*forksWeight +
		float64(in.Watchers)*watchersWeight +
		float64(in.Contributors)*contributorsWeight) * ageFactor

	result := math.Round(weighted - lastCommitPenalty)
	if result < 0 {
		return 0
	}
	return int(result)
}

// daysBetween returns whole days from then to now, floored at 0.
func daysBetween(now, then time.Time) int {
	d := now.Sub(then)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// yearsBetween returns whole calendar years from then to now, using month and
// day to decide whether the latest anniversary has been reached. Floored at 0.
func yearsBetween(now, then time.Time) int {
	nowUTC := now.UTC()
	thenUTC := then.UTC()

	years := nowUTC.Year() - thenUTC.Year()
	if nowUTC.Month() < thenUTC.Month() ||
		(nowUTC.Month() == thenUTC.Month() && nowUTC.Day() < thenUTC.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
