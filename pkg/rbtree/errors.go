package rbtree

import "errors"

var (
	// ErrInvalidHandle is a caller contract violation: a null handle where a
	// linked node was required, or a handle that belongs to no program.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrUnknownMember is returned when a type has no member of the
	// requested name.
	ErrUnknownMember = errors.New("unknown member")
)
