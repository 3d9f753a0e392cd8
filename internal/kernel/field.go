package kernel

import "errors"

var (
	ErrNilModel    = errors.New("nil model")
	ErrNoFields    = errors.New("model has no embedding fields")
	ErrFieldOrder  = errors.New("sub fields must precede the head field")
	ErrNoCumTable  = errors.New("negative sampling requires a cumulative table")
	ErrBufferSize  = errors.New("scratch buffers too small for model")
	ErrBadBoundary = errors.New("sentence boundaries are not non-decreasing offsets into the batch")
)

// FieldKind tags an embedding field variant.
type FieldKind int

const (
	// FieldHead is the token's own embedding space: one row per
	// vocabulary index, looked up directly.
	FieldHead FieldKind = iota

	// FieldSub is a sub-unit embedding space (character n-grams,
	// morphemes): each token maps to a slice of sub-unit rows that are
	// averaged with an inverse-length weight.
	FieldSub
)

// Field is one embedding space contributing to the context projection. The
// kernel mutates Vectors in place and never reallocates it.
//
// For FieldSub, three parallel tables describe the token to sub-unit
// mapping: Lookup is the flat ordered sequence of sub-unit indices, EndIdx
// gives the half-open slice [EndIdx[t-1], EndIdx[t]) of Lookup belonging to
// token t, and LengInv[t] is 1/len(t), or 0 for a token with no sub-units.
// EndIdx must be monotonically non-decreasing and the slices must partition
// Lookup; the kernel assumes this holds and does not re-validate it.
type Field struct {
	Kind    FieldKind
	Vectors []float32 // rows × dim, row-major

	// sub-field tables; nil for FieldHead
	Lookup  []uint32
	EndIdx  []uint32
	LengInv []float32
}

// subSlice returns the [lo, hi) range of f.Lookup holding token tok's
// sub-units.
func (f *Field) subSlice(tok uint32) (lo, hi int) {
	if tok > 0 {
		lo = int(f.EndIdx[tok-1])
	}
	return lo, int(f.EndIdx[tok])
}

// Model is the shared training state. The embedding matrices are mutated in
// place by TrainBatch under the package's Hogwild contract; everything else
// is read-only during training.
type Model struct {
	Dim int

	// Fields holds the active embedding fields in projection-buffer
	// order: sub fields first, then the head field.
	Fields []Field

	// Syn1Neg is the shared negative-sampling output matrix, vocabulary
	// rows × Dim.
	Syn1Neg []float32

	// CumTable drives negative draws; required when Negative > 0.
	CumTable []uint32

	// SampleInt holds per-index subsampling keep thresholds. Nil keeps
	// every token even when subsampling is requested.
	SampleInt []uint32

	// WordLocks scales head-field updates per token, allowing selective
	// freezing of rows. Nil means 1.0 everywhere.
	WordLocks []float32

	Window   int
	Negative int
	SkipGram bool

	// CBOWMean selects mean-style (true) over sum-style gradient
	// aggregation for the scattered input updates.
	CBOWMean bool

	// RunningLoss accumulates negative log-sigmoid terms across batches
	// when loss tracking is on.
	RunningLoss float64

	// Truncated counts tokens dropped by batch-capacity overflow.
	Truncated uint64
}

func (m *Model) lock(tok uint32) float32 {
	if m.WordLocks == nil {
		return 1
	}
	return m.WordLocks[tok]
}

// check validates the per-call entry preconditions. Everything past this
// point is skip-and-continue.
func (m *Model) check(buf *Buffers) error {
	if m == nil {
		return ErrNilModel
	}
	if len(m.Fields) == 0 {
		return ErrNoFields
	}
	seenHead := false
	for _, f := range m.Fields {
		if f.Kind == FieldHead {
			seenHead = true
		} else if seenHead {
			return ErrFieldOrder
		}
	}
	if m.Negative > 0 && (len(m.CumTable) == 0 || m.CumTable[len(m.CumTable)-1] == 0) {
		return ErrNoCumTable
	}
	need := len(m.Fields) * m.Dim
	if buf == nil || len(buf.Neu1) < need || len(buf.Work) < need {
		return ErrBufferSize
	}
	if len(buf.grad) < len(m.Fields) || len(buf.skip) < len(m.Fields) ||
		len(buf.sent) < MaxBatchWords || len(buf.sentIdx) < MaxBatchWords+1 || len(buf.reduced) < MaxBatchWords {
		return ErrBufferSize
	}
	return nil
}

// Buffers is the caller-owned scratch space for one in-flight TrainBatch
// call. It must not be shared across concurrent calls; reusing it across
// sequential calls avoids all hot-path allocation.
type Buffers struct {
	// Neu1 holds the per-field context projections in contiguous
	// Dim-sized segments; Work accumulates the matching input gradients.
	Neu1 []float32
	Work []float32

	sent    []uint32
	sentIdx []int
	reduced []int
	grad    []float32
	skip    []bool
}

// NewBuffers allocates scratch space for a model with nFields fields and
// the given vector dimension.
func NewBuffers(nFields, dim int) *Buffers {
	return &Buffers{
		Neu1:    make([]float32, nFields*dim),
		Work:    make([]float32, nFields*dim),
		sent:    make([]uint32, MaxBatchWords),
		sentIdx: make([]int, MaxBatchWords+1),
		reduced: make([]int, MaxBatchWords),
		grad:    make([]float32, nFields),
		skip:    make([]bool, nFields),
	}
}
