package jezzball

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := newRNG(7), newRNG(7)
	for i := range 100 {
		if x, y := a.next(), b.next(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestRNGZeroSeed(t *testing.T) {
	if got := newRNG(0).state; got != 1 {
		t.Errorf("newRNG(0).state = %d, expected 1", got)
	}
}

func TestRNGBounds(t *testing.T) {
	r := newRNG(42)
	for range 1000 {
		if v := r.Intn(5); v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
		if v := r.Range(-3, 4); v < -3 || v >= 4 {
			t.Fatalf("Range(-3, 4) = %g", v)
		}
		if v := r.Signed(2); v < -2 || v >= 2 {
			t.Fatalf("Signed(2) = %g", v)
		}
	}
	if v := r.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, expected 0", v)
	}
}
