package csvlate

import (
	"errors"
	"fmt"
)

// Sentinel errors. Providers wrap these so callers can classify failures
// with errors.Is.
var (
	// ErrAuth indicates the service rejected the credential.
	ErrAuth = errors.New("authorization failed")

	// ErrTransient indicates a temporary service failure (rate limit, 5xx, timeout).
	ErrTransient = errors.New("transient service failure")

	// ErrNoCredential indicates no API key was configured.
	ErrNoCredential = errors.New("missing API key")

	// ErrRunActive is returned when a run is started while another is in progress.
	ErrRunActive = errors.New("a translation run is already active")
)

// ProviderError indicates a translation service failure.
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TranslationFailedError is returned once every retry attempt has failed.
type TranslationFailedError struct {
	Attempts int
	Cause    error // Last underlying error
}

func (e *TranslationFailedError) Error() string {
	return fmt.Sprintf("translation failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TranslationFailedError) Unwrap() error {
	return e.Cause
}

// SchemaError indicates a file whose headers cannot be translated.
type SchemaError struct {
	Message string
	Column  string // Offending column, if any
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error: %s: %q", e.Message, e.Column)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

// PreflightError aborts a run before any file is touched.
type PreflightError struct {
	Message string
	Cause   error
}

func (e *PreflightError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preflight: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("preflight: %s", e.Message)
}

func (e *PreflightError) Unwrap() error {
	return e.Cause
}

// FileError indicates a read or write failure for a single file.
type FileError struct {
	Path  string
	Op    string // "read" or "write"
	Cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
