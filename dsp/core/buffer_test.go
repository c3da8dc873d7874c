package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 2, 8)
	out := EnsureLen(buf, 6)
	if len(out) != 6 || cap(out) != 8 {
		t.Fatalf("len=%d cap=%d, want len=6 cap=8", len(out), cap(out))
	}
	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("EnsureLen(0) len = %d", len(got))
	}
	if got := EnsureLen(buf, 16); len(got) != 16 {
		t.Fatalf("EnsureLen(16) len = %d", len(got))
	}
}

func TestCloneAndResize(t *testing.T) {
	src := []float64{1, 2, 3}
	c := Clone(src)
	c[0] = 9
	if src[0] != 1 {
		t.Fatal("Clone shares memory with source")
	}
	if Clone(nil) != nil {
		t.Fatal("Clone(nil) should be nil")
	}

	r := Resize(src, 5)
	if len(r) != 5 || r[2] != 3 || r[4] != 0 {
		t.Fatalf("Resize pad = %v", r)
	}
	r = Resize(src, 2)
	if len(r) != 2 || r[1] != 2 {
		t.Fatalf("Resize truncate = %v", r)
	}

	Zero(r)
	if r[0] != 0 || r[1] != 0 {
		t.Fatalf("Zero = %v", r)
	}
}
