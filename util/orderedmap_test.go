package util

import (
	"reflect"
	"testing"
)

func TestOrderedMap(t *testing.T) {
	om := NewOrderedMap[int]()
	om.Set("units", 1)
	om.Set("long_name", 2)
	om.Set("valid_range", 3)
	if !reflect.DeepEqual(om.Keys(), []string{"units", "long_name", "valid_range"}) {
		t.Errorf("keys out of order: %v", om.Keys())
	}
	if v, has := om.Get("long_name"); !has || v != 2 {
		t.Errorf("Get long_name = %v, %v", v, has)
	}
	if _, has := om.Get("missing"); has {
		t.Error("found a key that was never set")
	}
	if om.Len() != 3 {
		t.Errorf("Len = %d, want 3", om.Len())
	}
}

func TestOrderedMapReplaceKeepsPosition(t *testing.T) {
	om := NewOrderedMap[string]()
	om.Set("a", "first")
	om.Set("b", "second")
	om.Set("a", "replaced")
	if !reflect.DeepEqual(om.Keys(), []string{"a", "b"}) {
		t.Errorf("keys: %v", om.Keys())
	}
	if v, _ := om.Get("a"); v != "replaced" {
		t.Errorf("a = %q", v)
	}
	if om.Len() != 2 {
		t.Errorf("Len = %d, want 2", om.Len())
	}
}
