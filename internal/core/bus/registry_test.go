// If you are AI: This file contains unit tests for the registry.

package bus

import (
	"reflect"
	"testing"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry()

	stream1, created := reg.GetOrCreate("cam1")
	if !created || stream1 == nil {
		t.Fatal("First GetOrCreate should create new stream")
	}

	stream2, created := reg.GetOrCreate("cam1")
	if created {
		t.Error("Second GetOrCreate should not create new stream")
	}
	if stream1 != stream2 {
		t.Error("GetOrCreate should return same stream instance")
	}
	if reg.Count() != 1 {
		t.Errorf("Expected 1 stream, got %d", reg.Count())
	}
	if reg.Get("missing") != nil {
		t.Error("Get should return nil for unknown names")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	stream, _ := reg.GetOrCreate("cam1")
	stream.AttachPublisher("s1")

	if reg.Remove("cam1") {
		t.Error("Remove should refuse a stream with a publisher")
	}

	stream.DetachPublisher("s1")
	if !reg.Remove("cam1") {
		t.Error("Remove should succeed for an empty stream")
	}
	if reg.Remove("cam1") {
		t.Error("Remove of a missing stream should fail")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"b", "c", "a"} {
		reg.GetOrCreate(name)
	}

	if got := reg.List(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Expected sorted names, got %v", got)
	}
}
