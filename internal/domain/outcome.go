package domain

import "time"

// Outcome is the terminal state of one processed file. Every enumerated file
// ends in exactly one of these.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomeCopied
	OutcomeSkippedDuplicate
	OutcomeDeletedDuplicate
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeCopied:
		return "copied"
	case OutcomeSkippedDuplicate:
		return "skipped duplicate"
	case OutcomeDeletedDuplicate:
		return "deleted duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records what happened to a single file. Err is set only when the
// outcome is OutcomeFailed and carries the failure kind.
type Result struct {
	Source  string
	Dest    string
	Outcome Outcome
	Bytes   int64
	Err     error
}

// Summary aggregates the results of one run. Failed preserves the order in
// which failures were recorded.
type Summary struct {
	RunID    string
	DryRun   bool
	Total    int
	Moved    int
	Copied   int
	Skipped  int
	Deleted  int
	Bytes    int64
	Duration time.Duration
	Failed   []Result
}

// Record folds one result into the summary counters.
func (s *Summary) Record(r Result) {
	s.Total++
	s.Bytes += r.Bytes
	switch r.Outcome {
	case OutcomeMoved:
		s.Moved++
	case OutcomeCopied:
		s.Copied++
	case OutcomeSkippedDuplicate:
		s.Skipped++
	case OutcomeDeletedDuplicate:
		s.Deleted++
	case OutcomeFailed:
		s.Failed = append(s.Failed, r)
	}
}

// Succeeded counts every file that reached a non-failed terminal state.
func (s *Summary) Succeeded() int {
	return s.Moved + s.Copied + s.Skipped + s.Deleted
}

// OK reports whether the run finished without a single file failure.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0
}
