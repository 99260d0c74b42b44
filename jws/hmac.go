package jws

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

func newSHA256() hash.Hash { return sha256.New() }
func newSHA384() hash.Hash { return sha512.New384() }
func newSHA512() hash.Hash { return sha512.New() }

// hmacStrategy implements HS256/384/HS512 as defined in RFC 7518 section
// 3.2. The signature is the raw MAC, no further encoding.
type hmacStrategy struct {
	hashFunc func() hash.Hash
}

func (s hmacStrategy) sign(key, signingInput []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: HMAC algorithms require a non-empty key", ErrInvalid)
	}
	mac := hmac.New(s.hashFunc, key)
	mac.Write(signingInput)
	return mac.Sum(nil), nil
}

func (s hmacStrategy) verify(key, signingInput, signature []byte) error {
	expected, err := s.sign(key, signingInput)
	if err != nil {
		return err
	}
	if !hmac.Equal(expected, signature) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalid)
	}
	return nil
}
