package pitchdelay

// resolveTransition starts the pending change if the reader can take it.
func (r *Reader) resolveTransition() {
	if r.progTrans < 0 {
		if !r.pitchActive || r.xfadePos >= 0 {
			return
		}
		// Pitch shifting re-arms itself after every crossfade.
		r.progDelay = r.curDelay
		r.progTrans = 0
	}

	if r.needsCrossfade() {
		if r.xfadePos >= 0 {
			return
		}
		r.startCrossfade()
	} else {
		if r.xfadePos >= 0 || r.grains[r.active].IsRamping() {
			return
		}
		r.grains[r.active].RampTo(r.progDelay, r.progTrans)
	}
	r.curDelay = r.progDelay
	r.progTrans = -1
}

// needsCrossfade reports whether the pending change must crossfade. The
// reading speed of a ramp is measured at the base rate.
func (r *Reader) needsCrossfade() bool {
	if r.pitchActive {
		return true
	}
	delta := r.curDelay - r.progDelay
	nNormal := r.progTrans >> r.ovrLog2
	if nNormal == 0 {
		return delta != 0
	}
	rate := 1 + delta*r.sampleRate/float64(nNormal)
	return rate < r.rateInf || rate > r.rateSup
}

func (r *Reader) startCrossfade() {
	outgoing := &r.grains[r.active]
	r.active ^= 1
	incoming := &r.grains[r.active]
	incoming.Set(r.progDelay)

	if r.pitchActive {
		length := r.xfade[ModePitchShift].length
		step := (1 - r.pitchRatio) / r.procRate
		incoming.StartRamp(step, length)
		outgoing.StartRamp(step, length)
	}
	r.xfadePos = 0
}

// ReadAt fills dst with len(dst) samples whose first one sits at srcPos
// relative to the store's write head. An unbound reader writes silence.
// srcPos must not reach further back than the store's block allowance.
func (r *Reader) ReadAt(dst []float64, srcPos int) {
	if !r.IsReady() {
		clear(dst)
		return
	}
	r.resolveTransition()

	n := len(dst)
	for pos := 0; pos < n; {
		cur := &r.grains[r.active]
		work := cur.ClipBlockLength(n - pos)

		fading := r.xfadePos >= 0
		if fading {
			length := r.xfade[r.mode()].length
			work = min(work, length-r.xfadePos, len(r.tmp))
			work = r.grains[r.active^1].ClipBlockLength(work)
		}

		out := dst[pos : pos+work]
		r.readGrain(cur, out, srcPos+pos)

		if fading {
			spec := r.xfade[r.mode()]
			other := r.tmp[:work]
			r.readGrain(&r.grains[r.active^1], other, srcPos+pos)
			r.blender.Mix(out, other, spec.shape, r.xfadePos, spec.length)
			r.xfadePos += work
			if r.xfadePos >= spec.length {
				r.xfadePos = -1
			}
		}

		if r.progTrans > 0 {
			r.progTrans = max(r.progTrans-work, 0)
		}
		r.resolveTransition()
		pos += work
	}
}

func (r *Reader) readGrain(g *Grain, dst []float64, srcPos int) {
	beg, end := g.Advance(len(dst))
	r.store.ReadRamped(dst, r.clampDelay(beg), r.clampDelay(end), srcPos)
}

func (r *Reader) clampDelay(d float64) float64 {
	if d != d || d < r.minDelay {
		return r.minDelay
	}
	if d > r.maxDelay {
		return r.maxDelay
	}
	return d
}
