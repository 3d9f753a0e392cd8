package kernel

// Params configures one TrainBatch call.
type Params struct {
	// Alpha is the learning rate for this batch.
	Alpha float32

	// Seed initializes the call-local PRNG. Identical seeds over
	// identical inputs replay the same draw sequence.
	Seed uint64

	// TrackLoss accumulates negative log-sigmoid terms into
	// Model.RunningLoss.
	TrackLoss bool

	// Subsample applies frequency-based downsampling against
	// Model.SampleInt.
	Subsample bool
}

// TrainBatch trains on a flat sequence of vocabulary indices holding one or
// more concatenated sentences; boundaries gives each sentence's cumulative
// end offset into indices. It mutates the model's matrices in place per the
// package concurrency contract and returns the number of tokens that
// survived packing (reserved-index and subsampling drops excluded,
// capacity-truncated tokens excluded and counted on Model.Truncated).
func (t *Trainer) TrainBatch(m *Model, indices []uint32, boundaries []int, p Params, buf *Buffers) (int, error) {
	if err := m.check(buf); err != nil {
		return 0, err
	}
	rng := newRandState(p.Seed)

	// Pack surviving tokens into the fixed-capacity work arrays.
	// Reserved indices (0..3) never train in either mode.
	effWords, effSents := 0, 0
	truncated := 0
	buf.sentIdx[0] = 0
	prev := 0
pack:
	for _, end := range boundaries {
		if end < prev || end > len(indices) {
			return 0, ErrBadBoundary
		}
		for ri := prev; ri < end; ri++ {
			tok := indices[ri]
			if tok <= reservedIndexMax {
				continue
			}
			if p.Subsample && m.SampleInt != nil && uint64(m.SampleInt[tok]) < rng.next() {
				continue
			}
			if effWords >= MaxBatchWords {
				truncated = len(indices) - ri
				break pack
			}
			buf.sent[effWords] = tok
			effWords++
		}
		prev = end
		if effWords > buf.sentIdx[effSents] {
			effSents++
			buf.sentIdx[effSents] = effWords
		}
	}
	if truncated > 0 && effWords > buf.sentIdx[effSents] {
		effSents++
		buf.sentIdx[effSents] = effWords
	}

	// Randomized window shrinkage, precomputed for every position.
	for i := range effWords {
		buf.reduced[i] = 0
		if m.Window > 0 {
			buf.reduced[i] = int(rng.next() % uint64(m.Window))
		}
	}

	var loss float64
	for s := range effSents {
		idxStart, idxEnd := buf.sentIdx[s], buf.sentIdx[s+1]
		for i := idxStart; i < idxEnd; i++ {
			j := i - m.Window + buf.reduced[i]
			if j < idxStart {
				j = idxStart
			}
			k := i + m.Window + 1 - buf.reduced[i]
			if k > idxEnd {
				k = idxEnd
			}
			if m.SkipGram {
				for pos := j; pos < k; pos++ {
					if pos == i {
						continue
					}
					loss += t.trainToken(m, buf.sent, i, pos, pos+1, p.Alpha, p.TrackLoss, buf, &rng)
				}
			} else {
				loss += t.trainToken(m, buf.sent, i, j, k, p.Alpha, p.TrackLoss, buf, &rng)
			}
		}
	}

	if p.TrackLoss {
		m.RunningLoss += loss
	}
	if truncated > 0 {
		m.Truncated += uint64(truncated)
	}
	return effWords, nil
}
