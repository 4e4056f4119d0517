package stack

import (
	"errors"
)

var ErrEmptyStack = errors.New("empty stack")

// Stack is a LIFO of T. The zero value is ready to use.
type Stack[T any] struct {
	s []T
}

func New[T any](initialSize int) *Stack[T] {
	return &Stack[T]{make([]T, 0, initialSize)}
}

func (s *Stack[T]) Push(value T) {
	s.s = append(s.s, value)
}

// Pop removes the top value. ok is false on an empty stack.
func (s *Stack[T]) Pop() (value T, ok bool) {
	l := len(s.s)
	if l == 0 {
		return value, false
	}

	value = s.s[l-1]
	var zero T
	s.s[l-1] = zero
	s.s = s.s[:l-1]
	return value, true
}

func (s *Stack[T]) Top() (T, error) {
	l := len(s.s)
	if l == 0 {
		var zero T
		return zero, ErrEmptyStack
	}

	return s.s[l-1], nil
}

func (s *Stack[T]) Size() int {
	return len(s.s)
}

// Reset empties the stack keeping its capacity.
func (s *Stack[T]) Reset() {
	clear(s.s)
	s.s = s.s[:0]
}
