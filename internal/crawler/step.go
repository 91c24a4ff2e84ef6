package crawler

// Status tells the orchestrator what to do with the outcome of one unit of work.
type Status int

const (
	StatusSuccess Status = iota
	// StatusSkip drops the unit and continues with the next one.
	StatusSkip
	// StatusFatal aborts the whole pass.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkip:
		return "skip"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Step is the result of a fetch-and-extract step.
type Step[T any] struct {
	Value  T
	Status Status
	Err    error
}

func Succeeded[T any](value T) Step[T] {
	return Step[T]{Value: value, Status: StatusSuccess}
}

func Skipped[T any](err error) Step[T] {
	return Step[T]{Status: StatusSkip, Err: err}
}

func Fatal[T any](err error) Step[T] {
	return Step[T]{Status: StatusFatal, Err: err}
}
