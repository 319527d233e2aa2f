package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grovekit/grove/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sync.num_jobs")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all
// validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Sync.NumJobs < 0 {
		errors = append(errors, ValidationError{
			Field:   "sync.num_jobs",
			Value:   c.Sync.NumJobs,
			Message: "must be zero or positive",
		})
	}

	if c.Manifest.Branch == "" {
		errors = append(errors, ValidationError{
			Field:   "manifest.branch",
			Value:   c.Manifest.Branch,
			Message: "must not be empty",
		})
	}

	level := strings.ToUpper(c.Logging.Level)
	if !slices.Contains(logging.ValidLevels(), level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}

	return errors
}
