package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator("entry")

	if got := gen.Next(); got != "entry-1" {
		t.Fatalf("expected entry-1, got %q", got)
	}
	if got := gen.Next(); got != "entry-2" {
		t.Fatalf("expected entry-2, got %q", got)
	}

	gen.SetCounter(41)
	if got := gen.Next(); got != "entry-42" {
		t.Fatalf("expected entry-42 after reset, got %q", got)
	}
}

func TestIDGeneratorDefaultsPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("expected id-1, got %q", got)
	}
}
