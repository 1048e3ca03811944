package loader

import (
	"errors"
	"fmt"
)

// PackageNotFoundError indicates that a package could not be found.
type PackageNotFoundError struct {
	Path string
	Err  error
}

func (e *PackageNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("package %q not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("package %q not found", e.Path)
}

func (e *PackageNotFoundError) Unwrap() error {
	return e.Err
}

// ParseError indicates an error during parsing of a Go source file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TypeCheckError collects the type errors of a package that could not be
// type-checked well enough to be used.
type TypeCheckError struct {
	Path   string
	Errors []error
}

func (e *TypeCheckError) Error() string {
	return fmt.Sprintf("type checking %s: %v", e.Path, errors.Join(e.Errors...))
}

func (e *TypeCheckError) Unwrap() []error {
	return e.Errors
}
