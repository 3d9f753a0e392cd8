package vecops

import (
	"math"
	"math/rand"
	"testing"
)

func randVec(r *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

func TestInitStable(t *testing.T) {
	first := Init()
	for range 3 {
		if got := Init(); got != first {
			t.Fatalf("Init changed its answer: first %v, then %v", first, got)
		}
	}
	if Selected() == nil {
		t.Fatal("Selected returned nil ops")
	}
}

func TestDotAgreesWithFallback(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	impls := []struct {
		name string
		ops  Ops
	}{
		{"double", doubleOps{}},
		{"single", singleOps{}},
	}
	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			for _, n := range []int{1, 3, 8, 100, 301} {
				x := randVec(r, n)
				y := randVec(r, n)
				want := fallbackOps{}.Dot(x, y)
				got := impl.ops.Dot(x, y)
				if diff := math.Abs(float64(got - want)); diff > 1e-3 {
					t.Errorf("n=%d: dot mismatch: got %v want %v", n, got, want)
				}
			}
		})
	}
}

func TestAxpyAgreesWithFallback(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	for _, n := range []int{1, 8, 100} {
		x := randVec(r, n)
		y := randVec(r, n)

		want := make([]float32, n)
		copy(want, y)
		fallbackOps{}.Axpy(0.25, x, want)

		got := make([]float32, n)
		copy(got, y)
		singleOps{}.Axpy(0.25, x, got)

		for i := range want {
			if diff := math.Abs(float64(got[i] - want[i])); diff > 1e-5 {
				t.Fatalf("n=%d: axpy mismatch at %d: got %v want %v", n, i, got[i], want[i])
			}
		}
	}
}

func TestScal(t *testing.T) {
	for _, ops := range []Ops{fallbackOps{}, singleOps{}, doubleOps{}} {
		x := []float32{1, -2, 4}
		ops.Scal(0.5, x)
		want := []float32{0.5, -1, 2}
		for i := range want {
			if x[i] != want[i] {
				t.Fatalf("scal: got %v want %v", x, want)
			}
		}
	}
}

func TestProbeSelectsBLAS(t *testing.T) {
	if noBLASEnv() {
		t.Skipf("%s set; probe forced to fallback", NoBLASEnv)
	}
	pr, ops := probe()
	if pr == PrecisionFallback {
		t.Fatal("probe rejected the BLAS backend")
	}
	if ops == nil {
		t.Fatal("probe returned nil ops")
	}
}

func TestPrecisionString(t *testing.T) {
	cases := map[Precision]string{
		PrecisionDouble:   "double",
		PrecisionSingle:   "single",
		PrecisionFallback: "fallback",
		Precision(99):     "unknown",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Precision(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func BenchmarkDotFallback(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	x := randVec(r, 300)
	y := randVec(r, 300)
	for b.Loop() {
		fallbackOps{}.Dot(x, y)
	}
}

func BenchmarkDotBLAS(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	x := randVec(r, 300)
	y := randVec(r, 300)
	for b.Loop() {
		singleOps{}.Dot(x, y)
	}
}
