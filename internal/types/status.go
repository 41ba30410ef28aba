package types

// Status is the lifecycle state shared by deck analysis, session analysis
// and question generation.
type Status string

// Workflow states: pending -> processing -> completed | failed
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is expected
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal step
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed, StatusCompleted:
		// re-running a workflow starts over
		return next == StatusProcessing
	default:
		return false
	}
}
