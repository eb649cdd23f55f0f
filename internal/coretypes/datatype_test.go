package coretypes

import "testing"

func TestDataTypeSchemeMonomorphic(t *testing.T) {
	ts := NewTypeSystem()
	boolT, _ := ts.Lookup("bool")
	scheme, err := ts.DataTypeScheme(DataTypeDef{
		Name: "color",
		Ctors: []CtorDef{
			{Name: "Red"},
			{Name: "Green"},
			{Name: "Blue"},
		},
	})
	if err != nil {
		t.Fatalf("DataTypeScheme: %v", err)
	}
	dt, ok := scheme.(*DataType)
	if !ok {
		t.Fatalf("monomorphic datatype scheme is not a bare *DataType: %#v", scheme)
	}
	if len(dt.Constructors) != 3 {
		t.Fatalf("got %d constructors, want 3", len(dt.Constructors))
	}
	if _, ok := dt.Constructors[0].Arg.(*Dummy); !ok {
		t.Errorf("nullary constructor argument is not Dummy: %#v", dt.Constructors[0].Arg)
	}
	_ = boolT
}

func TestDataTypeSchemeSelfRecursive(t *testing.T) {
	ts := NewTypeSystem()
	scheme, err := ts.DataTypeScheme(DataTypeDef{
		Name:       "tree",
		ParamCount: 1,
		Ctors: []CtorDef{
			{Name: "Leaf"},
			{Name: "Node", Arg: func(params []Type, siblings map[string]Type) Type {
				self := siblings["tree"]
				return ts.TupleType([]Type{params[0], self, self})
			}},
		},
	})
	if err != nil {
		t.Fatalf("DataTypeScheme: %v", err)
	}
	forall, ok := scheme.(*Forall)
	if !ok {
		t.Fatalf("polymorphic datatype scheme is not a *Forall: %#v", scheme)
	}
	dt, ok := forall.Body.(*DataType)
	if !ok {
		t.Fatalf("Forall body is not a *DataType: %#v", forall.Body)
	}
	nodeArg, ok := dt.Constructors[1].Arg.(*Record)
	if !ok || !nodeArg.IsTuple() {
		t.Fatalf("Node argument is not a tuple: %#v", dt.Constructors[1].Arg)
	}
	left, ok := nodeArg.Fields[1].Type.(*DataType)
	if !ok {
		t.Fatalf("Node's left child is not a resolved *DataType (still a TemporaryType?): %#v", nodeArg.Fields[1].Type)
	}
	if left != dt {
		t.Errorf("self-reference inside Node did not resolve to the same *DataType object")
	}
}

func TestDataTypeSchemeSelfReferenceNestedInsideList(t *testing.T) {
	ts := NewTypeSystem()
	scheme, err := ts.DataTypeScheme(DataTypeDef{
		Name:       "forest",
		ParamCount: 1,
		Ctors: []CtorDef{
			{Name: "Node", Arg: func(params []Type, siblings map[string]Type) Type {
				self := siblings["forest"]
				return ts.TupleType([]Type{params[0], ts.ListType(self)})
			}},
		},
	})
	if err != nil {
		t.Fatalf("DataTypeScheme: %v", err)
	}
	forall, ok := scheme.(*Forall)
	if !ok {
		t.Fatalf("polymorphic datatype scheme is not a *Forall: %#v", scheme)
	}
	dt, ok := forall.Body.(*DataType)
	if !ok {
		t.Fatalf("Forall body is not a *DataType: %#v", forall.Body)
	}
	nodeArg, ok := dt.Constructors[0].Arg.(*Record)
	if !ok || !nodeArg.IsTuple() {
		t.Fatalf("Node argument is not a tuple: %#v", dt.Constructors[0].Arg)
	}
	childList, ok := nodeArg.Fields[1].Type.(*List)
	if !ok {
		t.Fatalf("Node's second field is not a List: %#v", nodeArg.Fields[1].Type)
	}
	child, ok := childList.Elem.(*DataType)
	if !ok {
		t.Fatalf("sibling reference nested inside the List did not resolve to a *DataType (still a TemporaryType?): %#v", childList.Elem)
	}
	if child != dt {
		t.Errorf("self-reference nested inside the List did not resolve to the same *DataType object")
	}
}

func TestDataTypesMutualRecursion(t *testing.T) {
	ts := NewTypeSystem()
	results, err := ts.DataTypes([]DataTypeDef{
		{
			Name: "even",
			Ctors: []CtorDef{
				{Name: "EZ"},
				{Name: "ES", Arg: func(_ []Type, siblings map[string]Type) Type {
					return siblings["odd"]
				}},
			},
		},
		{
			Name: "odd",
			Ctors: []CtorDef{
				{Name: "OS", Arg: func(_ []Type, siblings map[string]Type) Type {
					return siblings["even"]
				}},
			},
		},
	})
	if err != nil {
		t.Fatalf("DataTypes: %v", err)
	}
	even, ok := results[0].(*DataType)
	if !ok {
		t.Fatalf("even is not a *DataType: %#v", results[0])
	}
	odd, ok := results[1].(*DataType)
	if !ok {
		t.Fatalf("odd is not a *DataType: %#v", results[1])
	}
	if got, ok := even.Constructors[1].Arg.(*DataType); !ok || got != odd {
		t.Errorf("even's ES constructor does not resolve to the odd DataType: %#v", even.Constructors[1].Arg)
	}
	if got, ok := odd.Constructors[0].Arg.(*DataType); !ok || got != even {
		t.Errorf("odd's OS constructor does not resolve to the even DataType: %#v", odd.Constructors[0].Arg)
	}
}

func TestDataTypesTransactionDoesNotLeakTemporaries(t *testing.T) {
	ts := NewTypeSystem()
	if _, err := ts.DataTypeScheme(DataTypeDef{Name: "widget", Ctors: []CtorDef{{Name: "W"}}}); err != nil {
		t.Fatalf("DataTypeScheme: %v", err)
	}
	resolved, ok := ts.LookupOpt("widget")
	if !ok {
		t.Fatalf("widget was not registered under its name")
	}
	if _, isTemp := resolved.(*TemporaryType); isTemp {
		t.Errorf("widget is still a TemporaryType after construction completed")
	}
}
