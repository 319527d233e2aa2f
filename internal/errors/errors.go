// Package errors provides centralized error definitions and error handling
// utilities for the Grove codebase. It defines domain-specific errors,
// error constructors with context wrapping, and sentinel errors shared
// across packages.
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewGitError("fetch failed", baseErr).WithRepository("foo")
//
//	// Checking errors
//	if errors.Is(err, errors.ErrExecutorFailed) { ... }
//
//	var gitErr *errors.GitError
//	if errors.As(err, &gitErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Executor-related sentinel errors
var (
	// ErrExecutorFailed indicates that at least one item in a batch failed.
	// It is returned by OutcomeCollection.HandleResult after the per-item
	// errors have been reported.
	ErrExecutorFailed = New("executor failed")
)

// Workspace-related sentinel errors
var (
	// ErrWorkspaceNotFound indicates that no workspace root could be located.
	ErrWorkspaceNotFound = New("workspace not found")
	// ErrRepoExists indicates that a repository clone already exists on disk.
	ErrRepoExists = New("repository already exists")
)

// Git-related sentinel errors
var (
	// ErrNotGitRepository indicates that the directory is not a git repository.
	ErrNotGitRepository = New("not a git repository")
	// ErrDetachedHead indicates that HEAD is not on any branch.
	ErrDetachedHead = New("Not on any branch")
	// ErrDirtyWorkingTree indicates that the working tree has uncommitted changes.
	ErrDirtyWorkingTree = New("working tree is dirty")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message string
	cause   error
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// GitError represents errors related to git operations.
//
// Example:
//
//	err := errors.NewGitError("fetch failed", cause).
//		WithRepository("foo").
//		WithGitOutput(output)
type GitError struct {
	baseError
	Repository string
	Branch     string
	GitOutput  string // Captured git command output
}

// NewGitError creates a new GitError.
func NewGitError(message string, cause error) *GitError {
	return &GitError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithRepository adds a repository path to the error context.
func (e *GitError) WithRepository(path string) *GitError {
	e.Repository = path
	return e
}

// WithBranch adds a branch name to the error context.
func (e *GitError) WithBranch(branch string) *GitError {
	e.Branch = branch
	return e
}

// WithGitOutput adds git command output to the error context.
func (e *GitError) WithGitOutput(output string) *GitError {
	e.GitOutput = strings.TrimSpace(output)
	return e
}

// Error returns the formatted error message.
func (e *GitError) Error() string {
	var parts []string
	if e.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", e.Repository))
	}
	if e.Branch != "" {
		parts = append(parts, fmt.Sprintf("branch=%s", e.Branch))
	}

	prefix := "git error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("git error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.GitOutput != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, e.GitOutput)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *GitError) Is(target error) bool {
	if _, ok := target.(*GitError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ManifestError represents errors related to manifest loading and validation.
type ManifestError struct {
	baseError
	File string
	Dest string
}

// NewManifestError creates a new ManifestError.
func NewManifestError(message string, cause error) *ManifestError {
	return &ManifestError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithFile adds the manifest file path to the error context.
func (e *ManifestError) WithFile(file string) *ManifestError {
	e.File = file
	return e
}

// WithDest adds the offending repository destination to the error context.
func (e *ManifestError) WithDest(dest string) *ManifestError {
	e.Dest = dest
	return e
}

// Error returns the formatted error message.
func (e *ManifestError) Error() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}
	if e.Dest != "" {
		parts = append(parts, fmt.Sprintf("dest=%s", e.Dest))
	}

	prefix := "manifest error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("manifest error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ManifestError) Is(target error) bool {
	if _, ok := target.(*ManifestError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ConfigError represents errors related to workspace configuration.
type ConfigError struct {
	baseError
	Key string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{message: message, cause: cause},
	}
}

// WithKey adds the offending configuration key to the error context.
func (e *ConfigError) WithKey(key string) *ConfigError {
	e.Key = key
	return e
}

// Error returns the formatted error message.
func (e *ConfigError) Error() string {
	prefix := "config error"
	if e.Key != "" {
		prefix = fmt.Sprintf("config error [key=%s]", e.Key)
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigError) Is(target error) bool {
	if _, ok := target.(*ConfigError); ok {
		return true
	}
	return e.baseError.Is(target)
}
