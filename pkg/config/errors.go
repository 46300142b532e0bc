package config

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is matched by errors.Is for every *KeyNotFoundError
var ErrKeyNotFound = errors.New("config: key not found")

// KeyNotFoundError reports a Get on an absent key
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("config: key %q not found", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// TypeMismatchError reports a typed read of a value holding another kind
type TypeMismatchError struct {
	Key  string // empty when reading a bare Value
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: cannot read %s value as %s", e.Got, e.Want)
	}
	return fmt.Sprintf("config: key %q holds %s, not %s", e.Key, e.Got, e.Want)
}

// ParseError points at the offending line of a property source
type ParseError struct {
	Source string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	if e.Column > 0 {
		return fmt.Sprintf("config: %s:%d:%d: %s", src, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("config: %s:%d: %s", src, e.Line, e.Msg)
}

// IOError wraps a failure to read a property source
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("config: cannot read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
