// Package errors provides standardized error handling for edshell.
// It defines the error kinds surfaced by filesystem-touching operations,
// typed errors carrying the affected path or config parameter, and helpers
// for classifying errors coming back from the os package.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Filesystem error kinds
	NotFound
	AccessDenied
	AlreadyExists
	InvalidName
	IOError
	InvalidOperation
	BinaryContent
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:          "unknown",
	NotFound:         "not found",
	AccessDenied:     "access denied",
	AlreadyExists:    "already exists",
	InvalidName:      "invalid name",
	IOError:          "i/o error",
	InvalidOperation: "invalid operation",
	BinaryContent:    "binary content",
	InvalidConfig:    "invalid config",
	ConfigNotFound:   "config not found",
}

// String returns a human readable name for the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrNotFound      = NewFileError("file not found", "", NotFound, nil)
	ErrAccessDenied  = NewFileError("file access denied", "", AccessDenied, nil)
	ErrAlreadyExists = NewFileError("file already exists", "", AlreadyExists, nil)
	ErrInvalidName   = NewFileError("invalid file name", "", InvalidName, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// Is makes errors.Is match two file errors of the same kind, so callers can
// write errors.Is(err, ErrNotFound) regardless of the path involved.
func (e *FileError) Is(target error) bool {
	t, ok := target.(*FileError)
	if !ok {
		return false
	}
	return t.path == "" && t.kind == e.kind
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: KindOf(err),
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: KindOf(err),
	}
}

// FromOS classifies an error returned by the os package into a FileError.
// op is a short verb phrase used as the message ("rename", "create file").
// A nil err yields nil.
func FromOS(op string, path string, err error) error {
	if err == nil {
		return nil
	}
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return err
	}

	kind := IOError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = NotFound
	case errors.Is(err, fs.ErrPermission):
		kind = AccessDenied
	case errors.Is(err, fs.ErrExist):
		kind = AlreadyExists
	case errors.Is(err, syscall.ENOTEMPTY):
		kind = AlreadyExists
	}

	// Keep the underlying cause but drop the *PathError wrapper, whose
	// message would repeat the path.
	cause := err
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		cause = pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		cause = linkErr.Err
	}

	return NewFileError(op+" failed", path, kind, cause)
}

// KindOf returns the kind of the first application error in err's chain
func KindOf(err error) ErrorKind {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind()
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

// IsAccessDenied checks if the error is an access denied error
func IsAccessDenied(err error) bool {
	return KindOf(err) == AccessDenied
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return KindOf(err) == AlreadyExists
}

// IsInvalidName checks if the error is an invalid name error
func IsInvalidName(err error) bool {
	return KindOf(err) == InvalidName
}

// IsIOError checks if the error is a generic i/o error
func IsIOError(err error) bool {
	return KindOf(err) == IOError
}

// IsInvalidOperation checks if the error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return KindOf(err) == InvalidOperation
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
