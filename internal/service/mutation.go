package service

// Mutation is the outcome of a write that also refreshes projections.
// RecomputeErr is set when the write committed but the projection refresh failed;
// the write is never rolled back for it.
type Mutation[T any] struct {
	Result       T
	RecomputeErr error
}

// Warning returns a client-facing description of a failed refresh, or "" when there was none
func (m Mutation[T]) Warning() string {
	if m.RecomputeErr == nil {
		return ""
	}
	return "saved, but period totals could not be refreshed; they will be corrected on the next change"
}
