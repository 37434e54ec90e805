package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord matches every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnknownProvider matches every *UnknownProviderError.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNotFound is returned by slug lookups that match nothing.
	ErrNotFound = errors.New("record not found")
)

// MalformedRecordError is a raw record that cannot become a Record.
type MalformedRecordError struct {
	Provider Provider
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: %s", e.Provider, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// UnknownProviderError names a provider tag with no normalizer.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

func (e *UnknownProviderError) Unwrap() error {
	return ErrUnknownProvider
}
