// Package jws implements the signing and verification primitives for the
// fixed algorithm set used by JWS compact serialization: HMAC-SHA2,
// RSA-PKCS1v1.5 and ECDSA, plus the unsecured "none" algorithm. Dispatch
// is by a closed Algorithm enum: each variant is backed by exactly one
// strategy value in a package-level table, so adding an algorithm means
// adding one variant and one strategy, never touching the call sites in
// package jwt.
package jws

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned for an unrecognized algorithm, a key that does
// not match the algorithm's expected form, or a signature that fails
// verification.
var ErrInvalid = errors.New("invalid")

// Algorithm names one of the signature methods this package supports.
type Algorithm string

const (
	// NONE performs no signing; Token.Encode emits an empty signature
	// segment and Decode accepts it unconditionally.
	NONE Algorithm = "none"

	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"

	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"

	ES256 Algorithm = "ES256"
	ES384 Algorithm = "ES384"
	ES512 Algorithm = "ES512"

	// INVALID is a parse-only sentinel. It is never a valid Token
	// algorithm.
	INVALID Algorithm = ""
)

// ParseAlgorithm parses the canonical JOSE "alg" header value, matched
// case-insensitively, into an Algorithm. It returns INVALID for anything
// that is not one of the ten named variants.
func ParseAlgorithm(s string) Algorithm {
	switch strings.ToUpper(s) {
	case "NONE":
		return NONE
	case "HS256":
		return HS256
	case "HS384":
		return HS384
	case "HS512":
		return HS512
	case "RS256":
		return RS256
	case "RS384":
		return RS384
	case "RS512":
		return RS512
	case "ES256":
		return ES256
	case "ES384":
		return ES384
	case "ES512":
		return ES512
	default:
		return INVALID
	}
}

// String returns the canonical emission form: uppercase for every
// algorithm except "none".
func (a Algorithm) String() string {
	if a == NONE {
		return "none"
	}
	return string(a)
}

// Valid reports whether a is one of the ten named algorithms (i.e. not
// INVALID).
func (a Algorithm) Valid() bool {
	switch a {
	case NONE, HS256, HS384, HS512, RS256, RS384, RS512, ES256, ES384, ES512:
		return true
	default:
		return false
	}
}

// strategy implements signing and verification for one Algorithm variant.
// HMAC strategies use key as the shared secret directly; RSA/ECDSA
// strategies treat key as PEM-encoded key material, parsed fresh on every
// call (see SignRSA/VerifyRSA and SignECDSA/VerifyECDSA for callers that
// want to parse once and reuse an *rsa or *ecdsa key).
type strategy interface {
	sign(key []byte, signingInput []byte) ([]byte, error)
	verify(key []byte, signingInput, signature []byte) error
}

var dispatch = map[Algorithm]strategy{
	NONE:  noneStrategy{},
	HS256: hmacStrategy{hashFunc: newSHA256},
	HS384: hmacStrategy{hashFunc: newSHA384},
	HS512: hmacStrategy{hashFunc: newSHA512},
	RS256: rsaStrategy{hash: cryptoSHA256, hashFunc: newSHA256},
	RS384: rsaStrategy{hash: cryptoSHA384, hashFunc: newSHA384},
	RS512: rsaStrategy{hash: cryptoSHA512, hashFunc: newSHA512},
	ES256: ecdsaStrategy{curveBits: 256, hashFunc: newSHA256},
	ES384: ecdsaStrategy{curveBits: 384, hashFunc: newSHA384},
	ES512: ecdsaStrategy{curveBits: 521, hashFunc: newSHA512},
}

// Sign computes the raw signature bytes for signingInput under alg using
// key. For NONE it returns an empty (non-nil) slice. For HS* key is the
// shared secret. For RS*/ES* key is PEM-encoded private key material.
func Sign(alg Algorithm, key, signingInput []byte) ([]byte, error) {
	s, ok := dispatch[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, alg)
	}
	return s.sign(key, signingInput)
}

// Verify checks signature against signingInput under alg using key,
// returning ErrInvalid on any mismatch, unknown algorithm, or malformed
// key. HMAC comparison is constant-time.
func Verify(alg Algorithm, key, signingInput, signature []byte) error {
	s, ok := dispatch[alg]
	if !ok {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, alg)
	}
	return s.verify(key, signingInput, signature)
}
