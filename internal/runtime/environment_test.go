package runtime

import "testing"

func TestNewEnvironment(t *testing.T) {
	env := NewEnvironment()
	if env.Outer() != nil {
		t.Error("root environment should have no outer environment")
	}
	if _, ok := env.Get("x"); ok {
		t.Error("new environment should not resolve any name")
	}
}

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Int(42))

	val, ok := env.Get("x")
	if !ok {
		t.Fatal("x not found after Define")
	}
	if val != Int(42) {
		t.Errorf("got %v, want 42", val)
	}
}

func TestGetUndefined(t *testing.T) {
	env := NewEnvironment()
	val, ok := env.Get("undefined")
	if ok || val != nil {
		t.Errorf("got (%v, %v), want (nil, false)", val, ok)
	}
}

func TestSetUpdatesInnermostBinding(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := NewEnclosedEnvironment(outer)

	if ok := inner.Set("x", Int(2)); !ok {
		t.Fatal("Set on a name bound in an outer scope should succeed")
	}
	val, _ := outer.Get("x")
	if val != Int(2) {
		t.Errorf("outer x = %v, want 2 (Set should mutate the defining scope)", val)
	}
}

func TestSetUndefinedFails(t *testing.T) {
	env := NewEnvironment()
	if ok := env.Set("never_defined", Int(1)); ok {
		t.Error("Set on an unbound name should fail")
	}
}

func TestDefineShadowsOuterBinding(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Int(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", Int(2))

	innerVal, _ := inner.Get("x")
	outerVal, _ := outer.Get("x")
	if innerVal != Int(2) {
		t.Errorf("inner x = %v, want 2", innerVal)
	}
	if outerVal != Int(1) {
		t.Errorf("outer x = %v, want 1 (shadowing must not mutate the outer scope)", outerVal)
	}
}

func TestNestedScopeResolvesOuterNames(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("greeting", String("hi"))
	inner := NewEnclosedEnvironment(NewEnclosedEnvironment(outer))

	val, ok := inner.Get("greeting")
	if !ok || val != String("hi") {
		t.Errorf("got (%v, %v), want (hi, true) resolved through two scope levels", val, ok)
	}
}

func TestHas(t *testing.T) {
	env := NewEnvironment()
	if env.Has("x") {
		t.Error("Has should be false before Define")
	}
	env.Define("x", Nil)
	if !env.Has("x") {
		t.Error("Has should be true after Define, even for a null value")
	}
}
