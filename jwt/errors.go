package jwt

import (
	"errors"

	"github.com/halimath/cjwt/internal/jsonvalue"
	"github.com/halimath/cjwt/jws"
)

var (
	// ErrInvalid is returned for malformed input, an unknown or mismatched
	// algorithm, a failed signature verification or any attempt to put a
	// Token into an inconsistent state. It is the same sentinel used by
	// package jws, so errors.Is works across both packages.
	ErrInvalid = jws.ErrInvalid

	// ErrNoMemory is returned when the installed allocator hooks fail to
	// provide a buffer.
	ErrNoMemory = errors.New("out of memory")

	// ErrExists is returned when adding a header or grant whose name is
	// already present.
	ErrExists = jsonvalue.ErrExists

	// ErrNotPresent is returned by accessors when the requested name is
	// not present.
	ErrNotPresent = jsonvalue.ErrNotPresent
)
