package coretypes

import "testing"

func TestUnifyWithBindsVariable(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	v0 := ts.TypeVariable(0)
	bindings, err := UnifyWith(v0, intT)
	if err != nil {
		t.Fatalf("UnifyWith: %v", err)
	}
	if bindings[0] != intT {
		t.Errorf("bindings[0] = %#v, want int", bindings[0])
	}
}

func TestUnifyWithPrimitiveConflict(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	boolT, _ := ts.Lookup("bool")
	_, err := UnifyWith(intT, boolT)
	if err == nil {
		t.Fatalf("expected ConflictError")
	}
	if _, ok := err.(*ConflictError); !ok {
		t.Errorf("got %T, want *ConflictError", err)
	}
}

func TestUnifyWithRecordsByFieldSet(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	v0 := ts.TypeVariable(0)
	a := ts.RecordType(map[string]Type{"x": intT, "y": v0}, false)
	b := ts.RecordType(map[string]Type{"x": intT, "y": intT}, false)
	bindings, err := UnifyWith(a, b)
	if err != nil {
		t.Fatalf("UnifyWith: %v", err)
	}
	if bindings[0] != intT {
		t.Errorf("field y's variable did not bind to int: %#v", bindings[0])
	}
}

func TestUnifyWithRecordFieldSetMismatch(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	a := ts.RecordType(map[string]Type{"x": intT}, false)
	b := ts.RecordType(map[string]Type{"y": intT}, false)
	if _, err := UnifyWith(a, b); err == nil {
		t.Fatalf("expected ConflictError for mismatched field names")
	}
}

func TestUnifyWithListsRecurse(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	v0 := ts.TypeVariable(0)
	a := ts.ListType(v0)
	b := ts.ListType(intT)
	bindings, err := UnifyWith(a, b)
	if err != nil {
		t.Fatalf("UnifyWith: %v", err)
	}
	if bindings[0] != intT {
		t.Errorf("list element variable did not bind: %#v", bindings[0])
	}
}

func TestUnifyWithFunctionTypesFail(t *testing.T) {
	ts := NewTypeSystem()
	intT, _ := ts.Lookup("int")
	fn := ts.FnType(intT, intT)
	if _, err := UnifyWith(fn, fn); err == nil {
		t.Fatalf("UnifyWith should not handle Fn, expected ConflictError")
	}
}
