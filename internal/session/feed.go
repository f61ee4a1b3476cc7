package session

// Feed is an in-memory Capturer. The caller pushes units and Capture hands
// them out in order. Capture never blocks; an empty Feed returns ErrNoInput.
type Feed[T Unit] struct {
	queue []T
}

// Push queues units for capture.
func (f *Feed[T]) Push(v ...T) {
	f.queue = append(f.queue, v...)
}

// Len returns the number of queued units.
func (f *Feed[T]) Len() int {
	return len(f.queue)
}

// Capture implements Capturer.
func (f *Feed[T]) Capture() (T, error) {
	var zero T
	if len(f.queue) == 0 {
		return zero, ErrNoInput
	}
	v := f.queue[0]
	f.queue = f.queue[1:]
	return v, nil
}
