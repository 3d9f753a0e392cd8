package kernel

import "math"

// expTable[i] holds sigmoid(((i/expTableSize)*2 - 1) * maxExp); logTable
// holds its natural log. Both cover dot products in (-maxExp, maxExp).
var (
	expTable [expTableSize]float32
	logTable [expTableSize]float32
)

func buildTables() {
	for i := range expTableSize {
		e := math.Exp((float64(i)/expTableSize*2 - 1) * maxExp)
		sig := e / (e + 1)
		expTable[i] = float32(sig)
		logTable[i] = float32(math.Log(sig))
	}
}

// sigmoidIdx maps a dot product in (-maxExp, maxExp) to its table bucket.
// The scale constant divides as integers, matching the original word2vec
// indexing exactly.
func sigmoidIdx(f float32) int {
	return int((f + maxExp) * (expTableSize / maxExp / 2))
}

// saturated reports whether a dot product falls outside the tabulated
// domain. Saturated samples contribute neither gradient nor loss.
func saturated(f float32) bool {
	return f >= maxExp || f <= -maxExp
}
