package kernel

import "math"

// CumDomain is the default total mass of a cumulative frequency table.
const CumDomain = 1<<31 - 1

// unigramPower smooths the unigram distribution used for negative draws.
const unigramPower = 0.75

// BuildCumTable converts per-index occurrence counts into the cumulative
// table consumed by negative sampling. Entry i holds the scaled cumulative
// smoothed mass of indices 0..i; the last entry equals domain. Pass 0 for
// the default domain.
func BuildCumTable(counts []uint32, domain uint32) []uint32 {
	if domain == 0 {
		domain = CumDomain
	}
	table := make([]uint32, len(counts))
	var total float64
	for _, c := range counts {
		total += math.Pow(float64(c), unigramPower)
	}
	if total == 0 {
		return table
	}
	var cum float64
	for i, c := range counts {
		cum += math.Pow(float64(c), unigramPower)
		table[i] = uint32(math.Round(cum / total * float64(domain)))
	}
	// rounding may land the last entry one off the full domain
	table[len(table)-1] = domain
	return table
}

// SampleInts converts occurrence counts into the per-index keep thresholds
// used by frequency subsampling: a token survives when its threshold exceeds
// a fresh 32-bit draw. sample is the downsampling rate (e.g. 1e-3); larger
// values keep more tokens.
func SampleInts(counts []uint32, sample float64) []uint32 {
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	out := make([]uint32, len(counts))
	if total == 0 || sample <= 0 {
		return out
	}
	threshold := sample * total
	for i, c := range counts {
		if c == 0 {
			continue
		}
		v := float64(c)
		p := (math.Sqrt(v/threshold) + 1) * (threshold / v)
		r := math.Round(p * (1 << 32))
		if r >= math.MaxUint32 {
			out[i] = math.MaxUint32
			continue
		}
		out[i] = uint32(r)
	}
	return out
}

// drawNegative draws a vocabulary index proportional to the smoothed
// unigram distribution encoded in cum.
func drawNegative(cum []uint32, rng *randState) uint32 {
	r := rng.next() % uint64(cum[len(cum)-1])
	return searchCum(cum, r)
}

// searchCum returns the smallest idx with cum[idx] >= r (lower bound).
func searchCum(cum []uint32, r uint64) uint32 {
	lo, hi := 0, len(cum)
	for hi > lo {
		mid := (lo + hi) >> 1
		if uint64(cum[mid]) >= r {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return uint32(lo)
}
