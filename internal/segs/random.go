package segs

// ResetRandom redraws the random table used by Random segments. Every entry
// is in 0..LevelMax-1.
func (e *Engine) ResetRandom() {
	for i := range e.random {
		e.random[i] = e.rng.Intn(LevelMax)
	}
}

// RandomLevel returns table entry i&RandomMask.
func (e *Engine) RandomLevel(i int) int { return e.random[i&RandomMask] }
