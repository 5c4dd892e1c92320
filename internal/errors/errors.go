package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig    Kind = "invalid_config"
	InvalidPath      Kind = "invalid_path"
	InvalidPattern   Kind = "invalid_pattern"
	NotFound         Kind = "not_found"
	IOFailure        Kind = "io_failure"
	PermissionDenied Kind = "permission_denied"
	NameConflict     Kind = "name_conflict"
	HashFailure      Kind = "hash_failure"
	Internal         Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New builds an AppError for conditions that have no underlying cause, such
// as a name conflict detected by comparison rather than by a syscall.
func New(kind Kind, op, path, msg string) error {
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  errors.New(msg),
	}
}

// KindOf extracts the Kind from anywhere in err's chain, or Internal when the
// error did not originate here.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case InvalidPath:
		return fmt.Sprintf("Invalid path: %s", appErr.Path)
	case InvalidPattern:
		return fmt.Sprintf("Invalid exclusion pattern: %s", appErr.Path)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	case PermissionDenied:
		return fmt.Sprintf("Permission denied: %s", appErr.Path)
	case NameConflict:
		return fmt.Sprintf("Name conflict: %s", appErr.Path)
	case HashFailure:
		return fmt.Sprintf("Content comparison failed: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
