package domain

import "errors"

var (
	// ErrSourceUnavailable means a log store or the gateway could not be reached
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrSchemaMismatch means no candidate reply field resolved any data
	ErrSchemaMismatch = errors.New("reply log schema mismatch")
	// ErrIdentityNotFound means the contact directory has no entry for an address
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidTimestamp means a row carries a date that could not be parsed
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidArgument is returned for requests missing an account or contact
	ErrInvalidArgument = errors.New("invalid argument")
)
