package jsonvalue

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestSetMustNotExist(t *testing.T) {
	o := New()

	if err := o.SetMustNotExist("sub", "1234"); err != nil {
		t.Fatal(err)
	}

	err := o.SetMustNotExist("sub", "5678")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	v, err := o.GetString("sub")
	if err != nil {
		t.Fatal(err)
	}
	if v != "1234" {
		t.Errorf("value mutated by rejected set: %q", v)
	}
}

func TestSetMustNotExistDifferentType(t *testing.T) {
	o := New()
	o.Set("x", "a string")

	err := o.SetMustNotExist("x", int64(1))
	if !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	o := New()

	if _, err := o.GetString("missing"); !errors.Is(err, ErrNotPresent) {
		t.Errorf("expected ErrNotPresent, got %v", err)
	}
}

func TestGetIntAcceptsJSONNumber(t *testing.T) {
	o, err := Unmarshal([]byte(`{"exp": 1000000000}`))
	if err != nil {
		t.Fatal(err)
	}

	v, err := o.GetInt("exp")
	if err != nil {
		t.Fatal(err)
	}
	if v != 1000000000 {
		t.Errorf("unexpected value: %d", v)
	}
}

func TestCloneIsDeep(t *testing.T) {
	o := New()
	o.Set("nested", Object{"a": "b"})

	c := o.Clone()
	nested := c["nested"].(Object)
	nested["a"] = "mutated"

	orig := o["nested"].(Object)
	if diff := deep.Equal(orig["a"], "b"); diff != nil {
		t.Error(diff)
	}
}

func TestEqualNumericNormalization(t *testing.T) {
	a := Object{"exp": int64(10)}
	b := Object{"exp": float64(10)}

	if !a.Equal(b) {
		t.Error("expected numerically equal objects to compare equal")
	}
}

func TestEqualDetectsDifference(t *testing.T) {
	a := Object{"sub": "1"}
	b := Object{"sub": "2"}

	if a.Equal(b) {
		t.Error("expected different objects to compare unequal")
	}
}

func TestMarshalSortsKeys(t *testing.T) {
	o := Object{"typ": "JWT", "alg": "none"}

	b, err := o.Marshal(false)
	if err != nil {
		t.Fatal(err)
	}

	if string(b) != `{"alg":"none","typ":"JWT"}` {
		t.Errorf("unexpected marshaling: %s", b)
	}
}

func TestMergeRejectsDuplicates(t *testing.T) {
	o := Object{"sub": "1234"}

	err := o.Merge([]byte(`{"sub":"5678","iss":"test"}`), true)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	if o.Has("iss") {
		t.Error("merge should not have partially applied")
	}
}

func TestMergeNonObject(t *testing.T) {
	o := New()
	if err := o.Merge([]byte(`[1,2,3]`), false); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestValueEqualAudienceStringVsArray(t *testing.T) {
	if ValueEqual("aud1", []string{"aud1"}) {
		t.Error("a bare string and a single element array are not structurally equal")
	}
	if !ValueEqual([]any{"a", "b"}, []string{"a", "b"}) {
		t.Error("expected structurally equal arrays to compare equal")
	}
}
