package kernel

// randState is the 48-bit multiplicative-congruential generator used for
// negative draws, subsampling and window shrinkage. It is seeded once per
// batch call and threaded explicitly, so the sequence is bit-reproducible
// given a seed and call order. The constants are java.util.Random's, as in
// the original word2vec.
type randState uint64

const (
	randMul  = 25214903917
	randInc  = 11
	randMask = 1<<48 - 1
)

func newRandState(seed uint64) randState {
	return randState(seed & randMask)
}

// next returns the high 32 bits of the current state, then advances it.
func (s *randState) next() uint64 {
	v := uint64(*s) >> 16
	*s = randState((uint64(*s)*randMul + randInc) & randMask)
	return v
}
