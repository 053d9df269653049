package premo

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller misuse. They are always delivered wrapped in a
// *PreconditionError through a panic.
var (
	// ErrDestroyed indicates an operation on a presentation model that already
	// reached the DESTROYED state.
	ErrDestroyed = errors.New("presentation model is destroyed")

	// ErrIndexOutOfRange indicates a navigator index outside its values.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDuplicateTag indicates a second live child with the same description key.
	ErrDuplicateTag = errors.New("duplicate tag")

	// ErrTagMismatch indicates a factory returned a node whose tag does not
	// follow the parentTag/key derivation.
	ErrTagMismatch = errors.New("tag does not match parent and description")

	// ErrUnknownKind indicates a description whose kind has no registered constructor.
	ErrUnknownKind = errors.New("no constructor registered for kind")

	// ErrDuplicateEntry indicates a node handed to a navigator that already
	// holds it.
	ErrDuplicateEntry = errors.New("node is already an entry of this navigator")

	// ErrNotAChild indicates an attach/detach of a node that belongs to another parent.
	ErrNotAChild = errors.New("node is not a child of this presentation model")
)

// PreconditionError represents caller misuse of the tree or a navigator.
// The core fails fast with a panic carrying this error; it never tries to
// heal the misuse.
type PreconditionError struct {
	Op  string // Operation that was misused (e.g., "child", "set_navigator.change_current")
	Tag string // Tag of the presentation model involved, if any
	Err error  // Underlying sentinel
}

func (e *PreconditionError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("premo: %s [%s]: %v", e.Op, e.Tag, e.Err)
	}
	return fmt.Sprintf("premo: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// NewPreconditionError creates a new precondition error.
func NewPreconditionError(op, tag string, err error) *PreconditionError {
	return &PreconditionError{Op: op, Tag: tag, Err: err}
}

// IsPrecondition checks if an error is a precondition violation.
func IsPrecondition(err error) bool {
	var pErr *PreconditionError
	return errors.As(err, &pErr)
}

func fail(op, tag string, err error) {
	panic(NewPreconditionError(op, tag, err))
}
