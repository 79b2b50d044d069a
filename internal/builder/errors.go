package builder

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrNotFound     = errors.New("node not found")
	ErrTypeMismatch = errors.New("node type mismatch")
	ErrInvalidValue = errors.New("invalid value")
	ErrDuplicateID  = errors.New("duplicate id")
)

// InvalidPathError means an operation addressed a parent that does not
// resolve. It is a programming error, never a user error.
type InvalidPathError struct {
	Path Path
}

func (e InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path: %s", e.Path)
}

func (e InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

// NotFoundError means the addressed node is already gone.
type NotFoundError struct {
	Kind NodeKind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TypeMismatchError means a node of kind Node cannot live under Parent, or a
// patch does not fit the addressed node.
type TypeMismatchError struct {
	Node   NodeKind
	Parent NodeKind
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s cannot be placed under %s", e.Node, e.Parent)
}

func (e TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// InvalidValueError reports a leaf field outside its domain.
type InvalidValueError struct {
	Field string
	Value any
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

func (e InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// DuplicateIDError reports an insert of an id that is already in the tree.
type DuplicateIDError struct {
	Kind NodeKind
	ID   string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id: %s", e.Kind, e.ID)
}

func (e DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }
