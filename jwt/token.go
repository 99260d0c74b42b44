package jwt

import (
	"errors"
	"fmt"

	"github.com/halimath/cjwt/alloc"
	"github.com/halimath/cjwt/internal/jsonvalue"
	"github.com/halimath/cjwt/jws"
)

// Token is an in-memory JWT: a header object, a grants (claims) object, a
// signature algorithm and the key material used to sign or verify. A fresh
// Token carries jws.NONE and no key; the algorithm and key change together
// through SetAlg so that a key is present exactly when the algorithm
// requires one.
//
// A Token is not safe for concurrent mutation. Distinct Tokens are
// independent and may be used concurrently.
type Token struct {
	alg     jws.Algorithm
	key     []byte
	headers jsonvalue.Object
	grants  jsonvalue.Object
}

// New creates an empty Token with algorithm jws.NONE, no key and empty
// header and grant objects. Constructing the first Token pins the
// process-wide allocator hooks; see package alloc.
func New() *Token {
	alloc.Lock()
	return &Token{
		alg:     jws.NONE,
		headers: jsonvalue.New(),
		grants:  jsonvalue.New(),
	}
}

// Close destroys t: the key buffer is overwritten with zeros before it is
// released and both JSON objects are dropped. Using t after Close is
// undefined.
func (t *Token) Close() {
	t.scrubKey()
	t.alg = jws.NONE
	t.headers = nil
	t.grants = nil
}

// scrubKey zero-wipes and releases the key buffer. Every path that
// discards key material goes through here.
func (t *Token) scrubKey() {
	if t.key == nil {
		return
	}
	for i := range t.key {
		t.key[i] = 0
	}
	alloc.Get().Free(t.key)
	t.key = nil
}

// Dup returns a deep copy of t: headers, grants and key material are all
// copied, so mutating the copy never mutates t.
func (t *Token) Dup() (*Token, error) {
	d := New()
	d.headers = t.headers.Clone()
	d.grants = t.grants.Clone()

	if t.alg != jws.NONE {
		if err := d.SetAlg(t.alg, t.key); err != nil {
			d.Close()
			return nil, err
		}
	}

	return d, nil
}

// Alg returns the token's current algorithm.
func (t *Token) Alg() jws.Algorithm {
	return t.alg
}

// SetAlg sets the algorithm and key for t. The current key is scrubbed
// first, unconditionally, even when the new algorithm is rejected; a
// rejected call leaves t with jws.NONE and no key. alg must be one of the
// named algorithms; any algorithm except jws.NONE requires a non-empty
// key, and jws.NONE forbids one. The key bytes are copied, so the caller
// may reuse or destroy its own buffer afterwards.
func (t *Token) SetAlg(alg jws.Algorithm, key []byte) error {
	t.scrubKey()
	t.alg = jws.NONE

	if !alg.Valid() {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, alg)
	}
	if alg != jws.NONE && len(key) == 0 {
		return fmt.Errorf("%w: algorithm %s requires a key", ErrInvalid, alg)
	}
	if alg == jws.NONE && len(key) > 0 {
		return fmt.Errorf("%w: algorithm none must not carry a key", ErrInvalid)
	}

	if len(key) > 0 {
		buf := alloc.Get().Alloc(len(key))
		if buf == nil {
			return fmt.Errorf("%w: key buffer", ErrNoMemory)
		}
		copy(buf, key)
		t.key = buf
	}

	t.alg = alg
	return nil
}

// AddHeader adds a string-valued header. Adding a name already present
// with a string value fails with ErrExists; a name present with another
// type fails with ErrInvalid.
func (t *Token) AddHeader(name, value string) error {
	return addScalar(t.headers, name, value)
}

// AddHeaderInt adds an integer-valued header.
func (t *Token) AddHeaderInt(name string, value int64) error {
	return addScalar(t.headers, name, value)
}

// AddHeaderBool adds a boolean-valued header.
func (t *Token) AddHeaderBool(name string, value bool) error {
	return addScalar(t.headers, name, value)
}

// AddGrant adds a string-valued grant. Adding a name already present with
// a string value fails with ErrExists; a name present with another type
// fails with ErrInvalid.
func (t *Token) AddGrant(name, value string) error {
	return addScalar(t.grants, name, value)
}

// AddGrantInt adds an integer-valued grant.
func (t *Token) AddGrantInt(name string, value int64) error {
	return addScalar(t.grants, name, value)
}

// AddGrantBool adds a boolean-valued grant.
func (t *Token) AddGrantBool(name string, value bool) error {
	return addScalar(t.grants, name, value)
}

// AddHeadersJSON parses blob as a JSON object and merges its entries into
// the headers, overwriting names already present. A blob that is not a
// JSON object fails with ErrInvalid.
func (t *Token) AddHeadersJSON(blob []byte) error {
	return mergeJSON(t.headers, blob)
}

// AddGrantsJSON parses blob as a JSON object and merges its entries into
// the grants, overwriting names already present. A blob that is not a
// JSON object fails with ErrInvalid.
func (t *Token) AddGrantsJSON(blob []byte) error {
	return mergeJSON(t.grants, blob)
}

// Header returns the string-valued header stored at name. A missing name
// is ErrNotPresent, a non-string value ErrInvalid.
func (t *Token) Header(name string) (string, error) {
	return getString(t.headers, name)
}

// HeaderInt returns the integer-valued header stored at name.
func (t *Token) HeaderInt(name string) (int64, error) {
	return getInt(t.headers, name)
}

// HeaderBool returns the boolean-valued header stored at name.
func (t *Token) HeaderBool(name string) (bool, error) {
	return getBool(t.headers, name)
}

// Grant returns the string-valued grant stored at name. A missing name is
// ErrNotPresent, a non-string value ErrInvalid.
func (t *Token) Grant(name string) (string, error) {
	return getString(t.grants, name)
}

// GrantInt returns the integer-valued grant stored at name.
func (t *Token) GrantInt(name string) (int64, error) {
	return getInt(t.grants, name)
}

// GrantBool returns the boolean-valued grant stored at name.
func (t *Token) GrantBool(name string) (bool, error) {
	return getBool(t.grants, name)
}

// HeadersJSON serializes the header stored at name, or the whole header
// object when name is empty, with sorted keys and no insignificant
// whitespace.
func (t *Token) HeadersJSON(name string) ([]byte, error) {
	return marshalEntry(t.headers, name)
}

// GrantsJSON serializes the grant stored at name, or the whole grants
// object when name is empty, with sorted keys and no insignificant
// whitespace.
func (t *Token) GrantsJSON(name string) ([]byte, error) {
	return marshalEntry(t.grants, name)
}

// DelHeaders removes the header stored at name. An empty name clears all
// headers.
func (t *Token) DelHeaders(name string) {
	if name == "" {
		t.headers.Clear()
		return
	}
	t.headers.Delete(name)
}

// DelGrants removes the grant stored at name. An empty name clears all
// grants.
func (t *Token) DelGrants(name string) {
	if name == "" {
		t.grants.Clear()
		return
	}
	t.grants.Delete(name)
}

// DelGrant removes a single grant. It behaves exactly like DelGrants and
// exists for symmetry with the singular Add and Grant accessors.
func (t *Token) DelGrant(name string) {
	t.DelGrants(name)
}

func addScalar(o jsonvalue.Object, name string, value any) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if err := o.SetMustNotExist(name, value); err != nil {
		if errors.Is(err, jsonvalue.ErrWrongType) {
			return fmt.Errorf("%w: %s already holds a value of another type", ErrInvalid, name)
		}
		return err
	}
	return nil
}

func mergeJSON(o jsonvalue.Object, blob []byte) error {
	if err := o.Merge(blob, false); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return nil
}

func getString(o jsonvalue.Object, name string) (string, error) {
	v, err := o.GetString(name)
	if errors.Is(err, jsonvalue.ErrWrongType) {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return v, err
}

func getInt(o jsonvalue.Object, name string) (int64, error) {
	v, err := o.GetInt(name)
	if errors.Is(err, jsonvalue.ErrWrongType) {
		return 0, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return v, err
}

func getBool(o jsonvalue.Object, name string) (bool, error) {
	v, err := o.GetBool(name)
	if errors.Is(err, jsonvalue.ErrWrongType) {
		return false, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return v, err
}

func marshalEntry(o jsonvalue.Object, name string) ([]byte, error) {
	if name == "" {
		return o.Marshal(false)
	}
	v, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	return jsonvalue.MarshalValue(v, false)
}
