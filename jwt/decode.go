package jwt

import (
	"fmt"
	"strings"

	"github.com/halimath/cjwt/internal/b64url"
	"github.com/halimath/cjwt/internal/jsonvalue"
	"github.com/halimath/cjwt/jws"
)

// Decode parses token from JWS compact form and verifies its signature
// using key. The header's "alg" value selects the algorithm; for any
// algorithm except none a non-empty key is required and the signature is
// verified over the original header and payload segments. For an
// unsecured token key must be empty. On any failure the partially
// constructed token is scrubbed and only the error is returned.
func Decode(token string, key []byte) (*Token, error) {
	i := strings.IndexByte(token, '.')
	if i < 0 {
		return nil, fmt.Errorf("%w: token has no header separator", ErrInvalid)
	}
	j := strings.IndexByte(token[i+1:], '.')
	if j < 0 {
		return nil, fmt.Errorf("%w: token has no signature separator", ErrInvalid)
	}

	header64 := token[:i]
	payload64 := token[i+1 : i+1+j]
	signature64 := token[i+j+2:]

	t := New()
	if err := t.decode(header64, payload64, signature64, key); err != nil {
		t.Close()
		return nil, err
	}

	return t, nil
}

func (t *Token) decode(header64, payload64, signature64 string, key []byte) error {
	headerBytes, err := b64url.Decode(header64)
	if err != nil {
		return fmt.Errorf("%w: header is not base64url: %s", ErrInvalid, err)
	}
	headers, err := jsonvalue.Unmarshal(headerBytes)
	if err != nil {
		return fmt.Errorf("%w: header is not a JSON object: %s", ErrInvalid, err)
	}

	algName, err := headers.GetString("alg")
	if err != nil {
		return fmt.Errorf("%w: header carries no alg", ErrInvalid)
	}
	alg := jws.ParseAlgorithm(algName)
	if alg == jws.INVALID {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, algName)
	}

	if alg != jws.NONE {
		if typ, err := headers.GetString("typ"); err == nil {
			if !strings.EqualFold(typ, "JWT") {
				return fmt.Errorf("%w: typ header is %q", ErrInvalid, typ)
			}
		} else if headers.Has("typ") {
			return fmt.Errorf("%w: typ header is not a string", ErrInvalid)
		}
	}

	// SetAlg enforces the algorithm/key pairing: a signed token requires a
	// non-empty key, an unsecured one forbids it.
	if err := t.SetAlg(alg, key); err != nil {
		return err
	}
	t.headers = headers

	payloadBytes, err := b64url.Decode(payload64)
	if err != nil {
		return fmt.Errorf("%w: payload is not base64url: %s", ErrInvalid, err)
	}
	grants, err := jsonvalue.Unmarshal(payloadBytes)
	if err != nil {
		return fmt.Errorf("%w: payload is not a JSON object: %s", ErrInvalid, err)
	}
	t.grants = grants

	if alg == jws.NONE {
		return nil
	}

	signature, err := b64url.Decode(signature64)
	if err != nil {
		return fmt.Errorf("%w: signature is not base64url: %s", ErrInvalid, err)
	}

	// Verification runs over the original segment bytes, never a
	// re-serialization of the parsed objects.
	return jws.Verify(alg, key, []byte(header64+"."+payload64), signature)
}
