package extract

// StatusFunc receives progress messages during extraction. It is an observer
// only: implementations must not affect control flow, and errors in the sink
// are the sink's problem.
type StatusFunc func(stage string)

// NopStatus discards progress messages.
func NopStatus(string) {}
