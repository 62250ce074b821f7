package storage

// Apply runs an optimistic mutation: the caller swaps its in-memory value to
// next before the write is attempted, and on write failure gets prior back
// to restore. The returned value is what the caller's state should hold
// after the call.
func Apply[T any](prior, next T, write func(T) error) (T, error) {
	if err := write(next); err != nil {
		return prior, err
	}
	return next, nil
}
