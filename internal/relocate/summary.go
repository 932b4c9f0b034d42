package relocate

import "time"

// Summary is the outcome of a run.
type Summary struct {
	RunID  string
	Mode   Mode
	DryRun bool
	// Total is the number of candidates found while counting.
	Total int
	// Processed counts items the walk reached, including folder members.
	Processed int
	Moved     int
	Skipped   int
	Failed    int
	Cancelled bool
	Elapsed   time.Duration
}

// Completed reports whether the run reached the end of its snapshot.
func (s Summary) Completed() bool {
	return !s.Cancelled
}
