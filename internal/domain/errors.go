package domain

import "errors"

// KeyPrefix namespaces every key this service writes to the key-value store.
const KeyPrefix = "gravityview:"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrFormNotFound signals a missing form definition.
	ErrFormNotFound = errors.New("form not found")
	// ErrViewNotFound signals a missing view.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidConfiguration signals a malformed view, form or search field configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnknownFieldType signals a search field configuration whose type no variant handles.
	ErrUnknownFieldType = errors.New("unknown search field type")
	// ErrSieveNotImplemented signals a field that declares itself sievable
	// without a way to compute its sieved values.
	ErrSieveNotImplemented = errors.New("sievable field has no SievedValues implementation: implement it or disable sieving")
	// ErrConflictingRegistration signals an attempt to register a type pattern twice.
	ErrConflictingRegistration = errors.New("conflicting search field registration")
)
