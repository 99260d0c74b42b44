// Package jsonvalue is a thin facade over encoding/json providing the
// ordered-by-sort JSON object semantics the codec and validator need: typed
// accessors, duplicate-aware insertion, deep copy, structural equality and
// canonical (sorted-key) serialization. It exists so the header and claim
// objects in package jwt share one implementation of those semantics
// instead of duplicating map bookkeeping twice.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrExists is returned when a caller tries to add a name that is
	// already present in the object.
	ErrExists = errors.New("name already exists")

	// ErrNotPresent is returned by typed accessors when the requested
	// name is not present in the object.
	ErrNotPresent = errors.New("name not present")

	// ErrWrongType is returned by typed accessors when the requested
	// name is present but holds a value of a different JSON type.
	ErrWrongType = errors.New("value has unexpected type")

	// ErrNotObject is returned when a JSON blob expected to decode to an
	// object does not.
	ErrNotObject = errors.New("not a JSON object")
)

// Object is a JSON object. Key order carries no meaning: every
// serialization performed by this package emits keys in byte-lexicographic
// order, relying on the documented behavior of encoding/json that a
// map[string]T marshals with its keys sorted.
type Object map[string]any

// New returns an empty Object.
func New() Object {
	return Object{}
}

// Has reports whether name is present in o.
func (o Object) Has(name string) bool {
	_, ok := o[name]
	return ok
}

// Get returns the raw value stored at name.
func (o Object) Get(name string) (any, error) {
	v, ok := o[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotPresent, name)
	}
	return v, nil
}

// GetString returns the string stored at name.
func (o Object) GetString(name string) (string, error) {
	v, ok := o[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotPresent, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrWrongType, name)
	}
	return s, nil
}

// GetInt returns the integer stored at name. Values decoded by Unmarshal
// arrive as json.Number; values stored with Set may be int, int64 or
// float64. GetInt accepts any of these that holds an integer without loss,
// mirroring the leniency of a generic JSON facade wrapping a library that
// represents all numbers the same way.
func (o Object) GetInt(name string) (int64, error) {
	v, ok := o[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotPresent, name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrWrongType, name)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrWrongType, name)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s is not a number", ErrWrongType, name)
	}
}

// GetBool returns the boolean stored at name.
func (o Object) GetBool(name string) (bool, error) {
	v, ok := o[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotPresent, name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a boolean", ErrWrongType, name)
	}
	return b, nil
}

// Set stores value at name unconditionally, overwriting any previous
// value.
func (o Object) Set(name string, value any) {
	o[name] = value
}

// SetMustNotExist stores value at name, failing with ErrExists if name is
// already present holding a value of the same JSON type as value. A name
// present with a different type fails with ErrWrongType instead, so
// callers can distinguish the two conditions.
func (o Object) SetMustNotExist(name string, value any) error {
	if existing, ok := o[name]; ok {
		if sameJSONType(existing, value) {
			return fmt.Errorf("%w: %s", ErrExists, name)
		}
		return fmt.Errorf("%w: %s already holds a different type", ErrWrongType, name)
	}
	o[name] = value
	return nil
}

func sameJSONType(a, b any) bool {
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	case int64, int, float64, json.Number:
		switch b.(type) {
		case int64, int, float64, json.Number:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// Delete removes name from o. Deleting an absent name is a no-op.
func (o Object) Delete(name string) {
	delete(o, name)
}

// Clear removes every entry from o.
func (o Object) Clear() {
	for k := range o {
		delete(o, k)
	}
}

// Range calls fn once for every entry in o. Iteration order is
// unspecified; fn returning false stops iteration early.
func (o Object) Range(fn func(name string, value any) bool) {
	for k, v := range o {
		if !fn(k, v) {
			return
		}
	}
}

// Clone returns a deep copy of o: nested objects and arrays are copied
// recursively so mutating the clone never mutates o.
func (o Object) Clone() Object {
	c := make(Object, len(o))
	for k, v := range o {
		c[k] = deepCopy(v)
	}
	return c
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case Object:
		return t.Clone()
	case map[string]any:
		return Object(t).Clone()
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = deepCopy(e)
		}
		return c
	default:
		return t
	}
}

// Equal reports whether o and other are structurally equal as JSON: same
// keys, with values compared after canonical re-marshaling so that numeric
// representations (int64 vs float64) compare equal when they denote the
// same number.
func (o Object) Equal(other Object) bool {
	a, err := o.Marshal(false)
	if err != nil {
		return false
	}
	b, err := other.Marshal(false)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// ValueEqual reports whether two arbitrary decoded JSON values are
// structurally equal, using the same canonical-remarshal comparison as
// Equal. It is used by the validator to compare replicated claims such as
// "aud", whose value may be a string or an array of strings.
func ValueEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Marshal serializes o with sorted keys. pretty selects 4-space indented
// output with no signature segment considerations — callers needing the
// compact wire form pass false.
func (o Object) Marshal(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(map[string]any(o), "", "    ")
	}
	return json.Marshal(map[string]any(o))
}

// MarshalValue serializes an arbitrary decoded JSON value, not necessarily
// an object. Callers serializing a single named entry rather than a whole
// object use this to allow non-object roots.
func MarshalValue(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "    ")
	}
	return json.Marshal(v)
}

// Unmarshal parses data as a JSON object into a fresh Object.
func Unmarshal(data []byte) (Object, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, err)
	}
	// JSON null decodes into a nil map without error.
	if raw == nil {
		return nil, fmt.Errorf("%w: null", ErrNotObject)
	}
	return Object(raw), nil
}

// Merge parses data as a JSON object and copies its entries into o. If
// rejectDuplicates is true, any name already present in o aborts the merge
// with ErrExists and leaves o unchanged.
func (o Object) Merge(data []byte, rejectDuplicates bool) error {
	parsed, err := Unmarshal(data)
	if err != nil {
		return err
	}

	if rejectDuplicates {
		for name := range parsed {
			if o.Has(name) {
				return fmt.Errorf("%w: %s", ErrExists, name)
			}
		}
	}

	for name, value := range parsed {
		o[name] = value
	}
	return nil
}
