package typenode

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStruct is returned when a field operation targets a non-struct type.
	ErrNotStruct = errors.New("not a struct type")
	// ErrNotInterface is returned when AddInterfaces is given a non-interface type.
	ErrNotInterface = errors.New("not an interface type")
	// ErrInvalidReceiver is returned when methods cannot be declared on the type
	// (interfaces, or types without type information).
	ErrInvalidReceiver = errors.New("invalid receiver type")
	// ErrReceiverMismatch is returned when a method's receiver names another type.
	ErrReceiverMismatch = errors.New("receiver does not match type")
)

// NotFoundError reports a name that could not be found in a package.
type NotFoundError struct {
	Kind    string // "type", "interface", ...
	Name    string
	Package string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in package %q", e.Kind, e.Name, e.Package)
}
