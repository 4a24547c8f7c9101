// internal/errors/errors.go
package errors

import "fmt"

// ErrInvalidRepoFormat is returned when a repository reference is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// ErrMissingToken is returned when the GitHub client is constructed without a token.
type ErrMissingToken struct{}

func (e *ErrMissingToken) Error() string {
	return "missing GitHub token: set GITHUB_TOKEN before refreshing project metrics"
}

// ErrTokenRejected is returned when GitHub answers 401 or 403, meaning the
// configured token is invalid or lacks the required scopes.
type ErrTokenRejected struct {
	StatusCode int
	Body       string
}

func (e *ErrTokenRejected) Error() string {
	return fmt.Sprintf("GitHub token rejected (%d): check GITHUB_TOKEN value and scopes: %s", e.StatusCode, e.Body)
}

// ErrInvalidDate is returned when a source timestamp cannot be parsed.
type ErrInvalidDate struct {
	Field string
	Value string
}

func (e *ErrInvalidDate) Error() string {
	return fmt.Sprintf("invalid %s date value: %q", e.Field, e.Value)
}

// ErrMissingSlug is returned when a single-target refresh is requested without a slug.
type ErrMissingSlug struct{}

func (e *ErrMissingSlug) Error() string {
	return "single-project refresh requires a slug"
}

// ErrEmptyBatch is returned when a bulk write is attempted with zero rows,
// which always indicates a loader misconfiguration upstream.
type ErrEmptyBatch struct{}

func (e *ErrEmptyBatch) Error() string {
	return "empty batch: no rows to write"
}

// ErrSeedValidation is returned for a shape or type mismatch in the seed
// dataset. Path locates the offending value, e.g. "[3].stars".
type ErrSeedValidation struct {
	Path   string
	Reason string
}

func (e *ErrSeedValidation) Error() string {
	return fmt.Sprintf("invalid seed record at %s: %s", e.Path, e.Reason)
}
