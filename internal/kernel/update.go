package kernel

// trainToken runs one negative-sampling update for the target at position i
// of sent against the context window [j, k), excluding i itself. It mutates
// the field matrices and Syn1Neg in place and returns the loss contribution
// (zero unless trackLoss).
//
// Saturation policy: for each (field, sample) pair the dot product is
// computed once and checked against the tabulated domain once; a saturated
// pair contributes neither loss nor gradient, while the remaining fields of
// the same sample still proceed.
func (t *Trainer) trainToken(m *Model, sent []uint32, i, j, k int, alpha float32, trackLoss bool, buf *Buffers, rng *randState) float64 {
	dim := m.Dim
	word := sent[i]

	count := k - j
	if i >= j && i < k {
		count--
	}
	invCount := float32(1)
	if count > 0 {
		invCount = 1 / float32(count)
	}

	nf := len(m.Fields)
	neu1 := buf.Neu1[:nf*dim]
	work := buf.Work[:nf*dim]
	for x := range neu1 {
		neu1[x] = 0
		work[x] = 0
	}

	// Aggregate the per-field context projections. Segment order matches
	// Model.Fields: sub fields first, then head.
	for fi := range m.Fields {
		f := &m.Fields[fi]
		seg := neu1[fi*dim : (fi+1)*dim]
		for p := j; p < k; p++ {
			if p == i {
				continue
			}
			tok := int(sent[p])
			switch f.Kind {
			case FieldHead:
				t.ops.Axpy(1, f.Vectors[tok*dim:(tok+1)*dim], seg)
			case FieldSub:
				li := f.LengInv[tok]
				lo, hi := f.subSlice(uint32(tok))
				for u := lo; u < hi; u++ {
					unit := int(f.Lookup[u])
					t.ops.Axpy(li, f.Vectors[unit*dim:(unit+1)*dim], seg)
				}
			}
		}
		t.ops.Scal(invCount, seg)
	}

	var loss float64
	for d := 0; d <= m.Negative; d++ {
		var target uint32
		var label float32
		if d == 0 {
			target = word
			label = 1
		} else {
			target = drawNegative(m.CumTable, rng)
			if target == word {
				// discarded draw; this negative slot is skipped
				continue
			}
			label = 0
		}
		row := m.Syn1Neg[int(target)*dim : (int(target)+1)*dim]

		// Gradient scalars for every field against the pre-update row.
		for fi := range m.Fields {
			proj := neu1[fi*dim : (fi+1)*dim]
			fDot := t.ops.Dot(proj, row)
			if saturated(fDot) {
				buf.skip[fi] = true
				continue
			}
			buf.skip[fi] = false
			fv := expTable[sigmoidIdx(fDot)]
			buf.grad[fi] = (label - fv) * alpha
			if trackLoss {
				sgnDot := fDot
				if d != 0 {
					sgnDot = -fDot
				}
				loss -= float64(logTable[sigmoidIdx(sgnDot)])
			}
		}

		// Phase 1: defer the input gradient. Must complete for all
		// fields before the shared output row changes.
		for fi := range m.Fields {
			if buf.skip[fi] {
				continue
			}
			t.ops.Axpy(buf.grad[fi], row, work[fi*dim:(fi+1)*dim])
		}

		// Phase 2: update the output row in place; it is touched only
		// once per sample per field.
		for fi := range m.Fields {
			if buf.skip[fi] {
				continue
			}
			t.ops.Axpy(buf.grad[fi], neu1[fi*dim:(fi+1)*dim], row)
		}
	}

	if m.CBOWMean {
		for fi := range m.Fields {
			t.ops.Scal(invCount, work[fi*dim:(fi+1)*dim])
		}
	}

	// Scatter the accumulated gradients back into the context rows.
	for fi := range m.Fields {
		f := &m.Fields[fi]
		wseg := work[fi*dim : (fi+1)*dim]
		for p := j; p < k; p++ {
			if p == i {
				continue
			}
			tok := int(sent[p])
			switch f.Kind {
			case FieldHead:
				t.ops.Axpy(m.lock(uint32(tok)), wseg, f.Vectors[tok*dim:(tok+1)*dim])
			case FieldSub:
				li := f.LengInv[tok]
				lo, hi := f.subSlice(uint32(tok))
				for u := lo; u < hi; u++ {
					unit := int(f.Lookup[u])
					t.ops.Axpy(li, wseg, f.Vectors[unit*dim:(unit+1)*dim])
				}
			}
		}
	}

	return loss
}
