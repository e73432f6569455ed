package executor

// progressTracker forwards progress to the caller, clamped to [0,1] and
// never decreasing.
type progressTracker struct {
	fn   ProgressFunc
	last float64
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn}
}

func (t *progressTracker) report(fraction float64, status string) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction < t.last {
		fraction = t.last
	}
	t.last = fraction
	if t.fn != nil {
		t.fn(fraction, status)
	}
}
