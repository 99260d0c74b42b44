package jwt

import (
	"fmt"

	"github.com/halimath/cjwt/alloc"
	"github.com/halimath/cjwt/internal/b64url"
	"github.com/halimath/cjwt/jws"
)

// Encode serializes t into the JWS compact form
// header "." payload "." signature. The "alg" header is regenerated from
// the token's algorithm on every call, overwriting any value a caller
// placed there. When the token is signed, "typ" is likewise replaced by
// "JWT"; for jws.NONE the "typ" header is left as the caller set it (absent
// unless added). Header and payload are emitted with byte-lexicographic key order
// and no insignificant whitespace, so the output for a given token is
// deterministic. For jws.NONE the signature segment is empty.
func (t *Token) Encode() (string, error) {
	t.headers.Delete("alg")
	if t.alg != jws.NONE {
		t.headers.Delete("typ")
		t.headers.Set("typ", "JWT")
	}
	t.headers.Set("alg", t.alg.String())

	headerJSON, err := t.headers.Marshal(false)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	payloadJSON, err := t.grants.Marshal(false)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	signingInput, err := joinSigningInput(b64url.Encode(headerJSON), b64url.Encode(payloadJSON))
	if err != nil {
		return "", err
	}

	if t.alg == jws.NONE {
		return string(signingInput) + ".", nil
	}

	sig, err := jws.Sign(t.alg, t.key, signingInput)
	if err != nil {
		return "", err
	}

	return string(signingInput) + "." + b64url.Encode(sig), nil
}

// joinSigningInput builds the header64 "." payload64 scratch buffer
// through the installed allocator hooks so that an embedder controlling
// allocation sees the signing input pass through its hooks.
func joinSigningInput(header64, payload64 string) ([]byte, error) {
	buf := alloc.Get().Alloc(len(header64) + 1 + len(payload64))
	if buf == nil {
		return nil, fmt.Errorf("%w: signing input", ErrNoMemory)
	}

	n := copy(buf, header64)
	buf[n] = '.'
	copy(buf[n+1:], payload64)
	return buf, nil
}

// Dump renders t's header and payload JSON joined by "." for inspection.
// The signature segment is omitted, so the output cannot be verified or
// fed back into Decode. With pretty set, both objects are indented four
// spaces, the header is preceded by a newline and each object is followed
// by one.
func (t *Token) Dump(pretty bool) (string, error) {
	headerJSON, err := t.headers.Marshal(pretty)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	payloadJSON, err := t.grants.Marshal(pretty)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if pretty {
		return "\n" + string(headerJSON) + "\n." + string(payloadJSON) + "\n", nil
	}
	return string(headerJSON) + "." + string(payloadJSON), nil
}
