package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("Clamp(-1,0,3) = %d", got)
	}
	if got := Clamp(2, 3, 0); got != 2 {
		t.Fatalf("swapped bounds: Clamp(2,3,0) = %d", got)
	}
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Fatalf("Clamp(1.5,0,1) = %v", got)
	}
}

func TestBetween(t *testing.T) {
	if !Between(0.0, -40.0, 80.0) {
		t.Fatal("0 should be inside [-40,80]")
	}
	if Between(100.5, 0.0, 100.0) {
		t.Fatal("100.5 should be outside [0,100]")
	}
	if !Between(1, 3, 0) {
		t.Fatal("swapped bounds should still contain 1")
	}
}
