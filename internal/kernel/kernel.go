// Package kernel implements the inner training loop for multi-field
// skip-gram/CBOW word embeddings with negative sampling. Each token owns a
// "head" embedding row plus zero or more "sub" fields whose rows are
// aggregated from sub-unit lookup tables with inverse-length normalizers.
//
// Concurrency contract (Hogwild): multiple goroutines may call TrainBatch
// concurrently on the same Model. The embedding matrices (Field.Vectors and
// Model.Syn1Neg) are mutated without locks; races on the same row are
// accepted as gradient noise. The cumulative-frequency table, sample
// thresholds, sub-unit lookup tables and the sigmoid tables are read-only
// during training and must be fully built before the first concurrent call.
// Buffers and the PRNG state are exclusively owned by one in-flight call and
// must never be shared. Model.RunningLoss and Model.Truncated are updated
// once per call and carry the same racy-but-tolerated semantics as the
// matrices.
package kernel

import (
	"sync"

	"github.com/jluo41/FieldEmbed/internal/vecops"
)

const (
	// expTableSize is the number of discretized sigmoid samples.
	expTableSize = 1000

	// maxExp bounds the tabulated sigmoid domain. Dot products at or
	// beyond the bound are treated as saturated and skipped outright.
	maxExp = 6

	// MaxBatchWords is the hard capacity of the packed work buffers.
	// Tokens beyond it are dropped and counted, never an error.
	MaxBatchWords = 10000

	// reservedIndexMax is the highest reserved vocabulary index. Indices
	// 0 through 3 are special slots and never train.
	reservedIndexMax = 3
)

var tablesOnce sync.Once

// Init builds the sigmoid/log-sigmoid tables and probes the dot/axpy
// backend. It must run once per process before training; repeat calls are
// cheap and return the original backend decision.
func Init() vecops.Precision {
	tablesOnce.Do(buildTables)
	return vecops.Init()
}

// Trainer runs batches against a fixed vector-primitive strategy. It holds
// no mutable state and may be shared by any number of goroutines.
type Trainer struct {
	ops vecops.Ops
}

// NewTrainer returns a Trainer using the given primitives, or the
// process-wide selected backend when ops is nil.
func NewTrainer(ops vecops.Ops) *Trainer {
	Init()
	if ops == nil {
		ops = vecops.Selected()
	}
	return &Trainer{ops: ops}
}
