// Package vecops provides the vector primitives used by the training kernel:
// dot product, scaled accumulation (y += alpha*x) and in-place scaling.
//
// The backend is a process-wide immutable strategy chosen once by Init: a
// startup probe checks whether the optimized BLAS routines produce usable
// results and whether they accumulate in double or single precision, and
// falls back to plain Go loops otherwise. Kernel code receives the selected
// Ops value explicitly instead of reaching through package globals.
package vecops

import (
	"math"
	"os"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/blas/blas32"
)

// Precision identifies which dot-product backend the probe selected.
type Precision int

const (
	// PrecisionFallback means no usable BLAS routine was found; plain Go
	// loops are used.
	PrecisionFallback Precision = iota

	// PrecisionSingle means the BLAS dot product accumulates in single
	// precision.
	PrecisionSingle

	// PrecisionDouble means the BLAS dot product accumulates in double
	// precision.
	PrecisionDouble
)

func (p Precision) String() string {
	switch p {
	case PrecisionDouble:
		return "double"
	case PrecisionSingle:
		return "single"
	case PrecisionFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Ops is the vector-primitive strategy handed to the kernel. Implementations
// must be safe for concurrent use; they hold no mutable state.
type Ops interface {
	// Dot returns the inner product of x and y. len(y) must be >= len(x).
	Dot(x, y []float32) float32
	// Axpy computes y += alpha * x. len(y) must be >= len(x).
	Axpy(alpha float32, x, y []float32)
	// Scal computes x *= alpha.
	Scal(alpha float32, x []float32)
}

// NoBLASEnv forces the fallback backend when set to a truthy (or non-bool)
// value. Useful for testing and for debugging suspect BLAS builds.
const NoBLASEnv = "FIELDEMBED_NO_BLAS"

var (
	selectOnce sync.Once
	selected   Ops       = fallbackOps{}
	selectedPr Precision = PrecisionFallback
)

// Init probes the BLAS backend once per process and returns the selected
// precision mode. Subsequent calls return the original decision.
func Init() Precision {
	selectOnce.Do(func() {
		selectedPr, selected = probe()
	})
	return selectedPr
}

// Selected returns the process-wide Ops strategy, running the probe if it
// has not happened yet.
func Selected() Ops {
	Init()
	return selected
}

func noBLASEnv() bool {
	val := os.Getenv(NoBLASEnv)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// probe mirrors the classic word2vec startup check: compute a tiny dot
// product with a known answer and classify the backend by how it rounds.
func probe() (Precision, Ops) {
	if noBLASEnv() {
		return PrecisionFallback, fallbackOps{}
	}

	x := []float32{10.0}
	y := []float32{0.01}
	const expected = 0.1

	dRes := blas32.DDot(vec(x), vec(y))
	if math.Abs(dRes-expected) < 1e-4 {
		return PrecisionDouble, doubleOps{}
	}

	pRes := blas32.Dot(vec(x), vec(y))
	if math.Abs(float64(pRes)-expected) < 1e-4 {
		return PrecisionSingle, singleOps{}
	}

	return PrecisionFallback, fallbackOps{}
}

func vec(x []float32) blas32.Vector {
	return blas32.Vector{N: len(x), Inc: 1, Data: x}
}

// doubleOps accumulates dot products in float64 before rounding once.
type doubleOps struct{}

func (doubleOps) Dot(x, y []float32) float32 {
	return float32(blas32.DDot(vec(x), blas32.Vector{N: len(x), Inc: 1, Data: y}))
}

func (doubleOps) Axpy(alpha float32, x, y []float32) {
	blas32.Axpy(alpha, vec(x), blas32.Vector{N: len(x), Inc: 1, Data: y})
}

func (doubleOps) Scal(alpha float32, x []float32) {
	blas32.Scal(alpha, vec(x))
}

// singleOps accumulates dot products in float32.
type singleOps struct{}

func (singleOps) Dot(x, y []float32) float32 {
	return blas32.Dot(vec(x), blas32.Vector{N: len(x), Inc: 1, Data: y})
}

func (singleOps) Axpy(alpha float32, x, y []float32) {
	blas32.Axpy(alpha, vec(x), blas32.Vector{N: len(x), Inc: 1, Data: y})
}

func (singleOps) Scal(alpha float32, x []float32) {
	blas32.Scal(alpha, vec(x))
}

// fallbackOps is the plain Go implementation used when no BLAS routine
// passes the probe.
type fallbackOps struct{}

func (fallbackOps) Dot(x, y []float32) float32 {
	var sum float32
	for i, v := range x {
		sum += v * y[i]
	}
	return sum
}

func (fallbackOps) Axpy(alpha float32, x, y []float32) {
	for i, v := range x {
		y[i] += alpha * v
	}
}

func (fallbackOps) Scal(alpha float32, x []float32) {
	for i := range x {
		x[i] *= alpha
	}
}
