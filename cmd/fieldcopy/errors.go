package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "run", "list records")
	Cause       string   // The underlying cause (e.g., "catalog not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Code        int      // Process exit code
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewConfigError creates an error for missing or invalid settings
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
		Code:        migration.CodeValidationError,
	}
}

// NewCatalogError creates an error for catalogs that cannot be loaded
func NewCatalogError(operation, path string, underlying error) *CLIError {
	cause := fmt.Sprintf("catalog %s could not be loaded", path)
	if underlying != nil && strings.Contains(strings.ToLower(underlying.Error()), "no such file") {
		cause = fmt.Sprintf("catalog %s not found", path)
	}
	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     errorDetails(underlying),
		Suggestions: []string{CommonSuggestions.CheckCatalog},
		Code:        migration.CodeValidationError,
		Underlying:  underlying,
	}
}

// NewStoreError creates an error for store-related issues
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"

	if underlying != nil {
		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access store"
		case strings.Contains(errStr, "lock"):
			cause = "store is currently locked by another process"
		case strings.Contains(errStr, "parse"):
			cause = "store file is not valid JSON"
		case strings.Contains(errStr, "not found"):
			cause = "record not found"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     errorDetails(underlying),
		Suggestions: suggestions,
		Code:        migration.CodeExecutionError,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	return NewStoreError(operation, err, suggestions...)
}

// exitCode maps an error returned by a command onto a process exit code
func exitCode(err error) int {
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Code != 0 {
		return cliErr.Code
	}
	return migration.CodeExecutionError
}

func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CommonSuggestions are hints shared by several commands
var CommonSuggestions = struct {
	CheckCatalog string
	CheckStore   string
	CheckTarget  string
	CheckConfig  string
	TryDryRun    string
}{
	CheckCatalog: "Verify --catalog points to a catalog file or directory",
	CheckStore:   "Verify --store points to a writable JSON store file",
	CheckTarget:  "Run 'fieldcopy records list' to see valid target ids",
	CheckConfig:  "Check your configuration file or FIELDCOPY_* environment variables",
	TryDryRun:    "Use --dry-run to preview the copy",
}
