package project

import "time"

// OpenPause returns the phase's unresumed pause entry, or nil. By
// invariant at most one pause is open at a time, and it is the last entry.
func OpenPause(pauses []ProjectPause) *ProjectPause {
	for i := len(pauses) - 1; i >= 0; i-- {
		if pauses[i].ResumeDate == nil {
			return &pauses[i]
		}
	}
	return nil
}

// SuspendedDuration sums the closed suspension intervals of a phase. Note
// that Resume extends the deadline by the just-closed interval only; the
// cumulative sum is reporting material.
func SuspendedDuration(pauses []ProjectPause) time.Duration {
	var total time.Duration
	for i := range pauses {
		if pauses[i].ResumeDate != nil {
			total += pauses[i].ResumeDate.Sub(pauses[i].PauseDate)
		}
	}
	return total
}
