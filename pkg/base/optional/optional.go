// Package optional provides a value that may or may not be present.
package optional

// Optional holds a value of type T, or nothing.
// The zero value is an empty optional.
type Optional[T any] struct {
	value   T
	present bool
}

func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// OfNullable returns an empty optional when v is nil.
func OfNullable[T any](v *T) Optional[T] {
	if v == nil {
		return Empty[T]()
	}
	return Of(*v)
}

func OfPresent[T any](v T, present bool) Optional[T] {
	return Optional[T]{value: v, present: present}
}

func (o Optional[T]) Get() T {
	if !o.present {
		panic("Get called on an empty optional")
	}
	return o.value
}

// Lookup returns the value and whether it is present, comma-ok style.
func (o Optional[T]) Lookup() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) GetOrDefault(d T) T {
	if !o.present {
		return d
	}
	return o.value
}

func (o Optional[T]) IsEmpty() bool {
	return !o.IsPresent()
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

func (o Optional[T]) IfPresent(fn func(v T)) {
	if o.present {
		fn(o.value)
	}
}
