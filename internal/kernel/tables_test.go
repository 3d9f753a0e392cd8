package kernel

import (
	"math"
	"testing"
)

func TestBuildTables(t *testing.T) {
	Init()

	// table midpoint is sigmoid(0)
	if got := expTable[500]; math.Abs(float64(got)-0.5) > 1e-6 {
		t.Fatalf("expTable[500] = %v, want 0.5", got)
	}
	for i := 1; i < expTableSize; i++ {
		if expTable[i] <= expTable[i-1] {
			t.Fatalf("expTable not strictly increasing at %d", i)
		}
	}
	for i := 0; i < expTableSize; i += 97 {
		want := math.Log(float64(expTable[i]))
		if math.Abs(float64(logTable[i])-want) > 1e-5 {
			t.Fatalf("logTable[%d] = %v, want %v", i, logTable[i], want)
		}
	}
}

func TestSigmoidIdxBounds(t *testing.T) {
	Init()
	for _, f := range []float32{-5.9999, -3, -0.001, 0, 0.001, 3, 5.9999} {
		idx := sigmoidIdx(f)
		if idx < 0 || idx >= expTableSize {
			t.Fatalf("sigmoidIdx(%v) = %d out of range", f, idx)
		}
	}
	if idx := sigmoidIdx(0); idx != maxExp*(expTableSize/maxExp/2) {
		t.Fatalf("sigmoidIdx(0) = %d", idx)
	}
}

func TestSaturated(t *testing.T) {
	cases := map[float32]bool{
		-7: true, -6: true, -5.999: false, 0: false, 5.999: false, 6: true, 7: true,
	}
	for f, want := range cases {
		if got := saturated(f); got != want {
			t.Errorf("saturated(%v) = %v, want %v", f, got, want)
		}
	}
}
