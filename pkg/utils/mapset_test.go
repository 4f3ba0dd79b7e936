package utils

import "testing"

func TestMapSet(t *testing.T) {
	s := NewMapSet[string]()
	if s.Len() != 0 {
		t.Fatalf("new set length = %d, want 0", s.Len())
	}

	s.Add("libc.so.6")
	s.Add("libm.so.6")
	s.Add("libc.so.6")

	if s.Len() != 2 {
		t.Errorf("set length after adds = %d, want 2", s.Len())
	}
	if !s.Contains("libc.so.6") {
		t.Error("expected set to contain libc.so.6")
	}
	if s.Contains("libpthread.so.0") {
		t.Error("expected set not to contain libpthread.so.0")
	}
}
