package core

// Critical runs fn with interrupts masked.
// On a single core this is the highest priority ceiling: no handler that
// shares state with fn can preempt it.
func Critical(fn func()) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	fn()
}

// Resource is a value shared between interrupt priorities.
// Every access goes through Lock, so a lower priority reader never observes
// a half-written value from a higher priority writer.
type Resource[T any] struct {
	value T
}

// NewResource wraps an initial value
func NewResource[T any](v T) *Resource[T] {
	return &Resource[T]{value: v}
}

// Lock runs fn with exclusive access to the value
func (r *Resource[T]) Lock(fn func(v *T)) {
	Critical(func() {
		fn(&r.value)
	})
}

// Get returns a copy of the value
func (r *Resource[T]) Get() T {
	var v T
	r.Lock(func(cur *T) {
		v = *cur
	})
	return v
}
