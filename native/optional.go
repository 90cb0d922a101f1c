package native

// Optional holds a value that the host may legitimately leave absent.
// The zero value is absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Map applies f to a present value.
func Map[T, U any](o Optional[T], f func(T) U) Optional[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(f(o.value))
}

// FlatMap applies f to a present value and returns its result.
func FlatMap[T, U any](o Optional[T], f func(T) Optional[U]) Optional[U] {
	if !o.ok {
		return None[U]()
	}
	return f(o.value)
}
