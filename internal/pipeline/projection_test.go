package pipeline

import (
	"testing"

	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
)

func parseVal(t *testing.T, raw string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func TestProjectIncludeScalarField(t *testing.T) {
	v := parseVal(t, `{"name": "alice", "age": 30, "city": "NYC"}`)

	result, err := Project(v, []string{"name"}, "include")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	got, ok := result.Value.Object.Get("name")
	if !ok || got.Str != "alice" {
		t.Fatalf("expected name=alice in projection, got %+v", result.Value)
	}
	if _, ok := result.Value.Object.Get("age"); ok {
		t.Fatalf("age should have been excluded from an include projection that didn't name it")
	}
}

func TestProjectExcludeRemovesLeaf(t *testing.T) {
	v := parseVal(t, `{"name": "alice", "password": "secret"}`)

	result, err := Project(v, []string{"password"}, "exclude")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if _, ok := result.Value.Object.Get("password"); ok {
		t.Fatalf("password should have been excluded")
	}
	name, ok := result.Value.Object.Get("name")
	if !ok || name.Str != "alice" {
		t.Fatalf("name should survive an exclude projection that didn't name it")
	}
}

func TestProjectIncludeArrayElements(t *testing.T) {
	v := parseVal(t, `{"orders": [{"id": 1, "total": 10}, {"id": 2, "total": 20}]}`)

	result, err := Project(v, []string{"orders[].total"}, "include")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	orders, ok := result.Value.Object.Get("orders")
	if !ok || len(orders.Array) != 2 {
		t.Fatalf("expected 2 projected orders, got %+v", orders)
	}
	for _, item := range orders.Array {
		if _, ok := item.Object.Get("id"); ok {
			t.Fatalf("id should not survive a projection that only asked for total")
		}
		if _, ok := item.Object.Get("total"); !ok {
			t.Fatalf("total should survive the projection that asked for it")
		}
	}
}

func TestProjectKeysTerminatesDescent(t *testing.T) {
	v := parseVal(t, `{"a": 1, "b": {"nested": true}}`)

	result, err := Project(v, []string{"_keys"}, "include")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	keys, ok := result.Value.Object.Get("_keys")
	if !ok || len(keys.Array) != 2 {
		t.Fatalf("expected _keys to list 2 top-level keys, got %+v", result.Value)
	}
}

func TestProjectIncludeImplicitlyDescendsIntoArray(t *testing.T) {
	v := parseVal(t, `{"users": [
		{"name": "alice", "email": "alice@x.com", "secret": "s1"},
		{"name": "bob", "email": "bob@x.com", "secret": "s2"}
	]}`)

	result, err := Project(v, []string{"users.name", "users.email"}, "include")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	users, ok := result.Value.Object.Get("users")
	if !ok || len(users.Array) != 2 {
		t.Fatalf("expected 2 projected users, got %+v", users)
	}
	for _, item := range users.Array {
		if _, ok := item.Object.Get("secret"); ok {
			t.Fatalf("secret should not survive a projection that only asked for name and email")
		}
		if _, ok := item.Object.Get("name"); !ok {
			t.Fatalf("name should survive, no [] marker required to reach array elements")
		}
		if _, ok := item.Object.Get("email"); !ok {
			t.Fatalf("email should survive, no [] marker required to reach array elements")
		}
	}
}

func TestProjectWholeSubtreeWhenPathExhaustedAtObject(t *testing.T) {
	v := parseVal(t, `{"user": {"name": "alice", "age": 30}}`)

	result, err := Project(v, []string{"user"}, "include")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	user, ok := result.Value.Object.Get("user")
	if !ok {
		t.Fatalf("expected user to be present")
	}
	if _, ok := user.Object.Get("age"); !ok {
		t.Fatalf("a path exhausted exactly at an object should include the whole subtree, including age")
	}
}
