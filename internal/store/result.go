package store

// Result is the outcome of a read. A read against an unreachable backend
// is not an error: it yields empty data with Degraded set and the cause kept
// for logging. Writes never degrade; they return ErrUnavailable.
type Result[T any] struct {
	Data     T
	Degraded bool
	Cause    error
}

func OK[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func Degrade[T any](empty T, cause error) Result[T] {
	return Result[T]{Data: empty, Degraded: true, Cause: cause}
}

// Found reports whether a single-row read returned a row.
func Found[T any](r Result[*T]) bool {
	return r.Data != nil
}
