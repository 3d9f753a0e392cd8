package main

import (
	"math/rand"

	"github.com/jluo41/FieldEmbed/internal/kernel"
)

// synthSpec describes the synthetic vocabulary, sub-unit tables and corpus
// used by the bench command. Indices 0-3 are reserved and excluded from
// counts and sentences.
type synthSpec struct {
	vocab     int
	subUnits  int
	subFields int
	dim       int
	sample    float64
	window    int
	negative  int
	skipGram  bool
	seed      int64
}

// buildSynthModel constructs a randomly initialized model with Zipf-like
// token frequencies. Sub-unit tables are generated with valid EndIdx
// partitions and LengInv normalizers; output weights start at zero as in
// word2vec.
func buildSynthModel(spec synthSpec) *kernel.Model {
	r := rand.New(rand.NewSource(spec.seed))

	counts := make([]uint32, spec.vocab)
	for i := 4; i < spec.vocab; i++ {
		counts[i] = uint32(1 + 100000/(i-3))
	}

	mat := func(rows int) []float32 {
		v := make([]float32, rows*spec.dim)
		for i := range v {
			v[i] = (r.Float32() - 0.5) / float32(spec.dim)
		}
		return v
	}

	var fields []kernel.Field
	for range spec.subFields {
		lookup := make([]uint32, 0, spec.vocab*3)
		endIdx := make([]uint32, spec.vocab)
		lengInv := make([]float32, spec.vocab)
		for t := range spec.vocab {
			if t > 3 {
				n := 1 + r.Intn(5)
				for range n {
					lookup = append(lookup, uint32(r.Intn(spec.subUnits)))
				}
				lengInv[t] = 1 / float32(n)
			}
			endIdx[t] = uint32(len(lookup))
		}
		fields = append(fields, kernel.Field{
			Kind:    kernel.FieldSub,
			Vectors: mat(spec.subUnits),
			Lookup:  lookup,
			EndIdx:  endIdx,
			LengInv: lengInv,
		})
	}
	fields = append(fields, kernel.Field{Kind: kernel.FieldHead, Vectors: mat(spec.vocab)})

	return &kernel.Model{
		Dim:       spec.dim,
		Fields:    fields,
		Syn1Neg:   make([]float32, spec.vocab*spec.dim),
		CumTable:  kernel.BuildCumTable(counts, 0),
		SampleInt: kernel.SampleInts(counts, spec.sample),
		Window:    spec.window,
		Negative:  spec.negative,
		SkipGram:  spec.skipGram,
		CBOWMean:  true,
	}
}

// buildSynthCorpus draws sentences from a Zipf distribution over the
// non-reserved vocabulary and returns them as flat index/boundary batches of
// batchSentences each.
func buildSynthCorpus(spec synthSpec, sentences, sentenceLen, batchSentences int) (batches [][]uint32, bounds [][]int) {
	r := rand.New(rand.NewSource(spec.seed + 1))
	z := rand.NewZipf(r, 1.2, 1, uint64(spec.vocab-5))

	var indices []uint32
	var offsets []int
	flush := func() {
		if len(offsets) == 0 {
			return
		}
		batches = append(batches, indices)
		bounds = append(bounds, offsets)
		indices, offsets = nil, nil
	}
	for s := range sentences {
		for range sentenceLen {
			indices = append(indices, uint32(4+z.Uint64()))
		}
		offsets = append(offsets, len(indices))
		if (s+1)%batchSentences == 0 {
			flush()
		}
	}
	flush()
	return batches, bounds
}
