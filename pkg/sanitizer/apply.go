package sanitizer

// Apply runs value through each transform in order and returns the result.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, fn := range transforms {
		value = fn(value)
	}
	return value
}

// Compose returns a single transform that runs the given ones in order.
// Use it for chains that are applied to many values, e.g. a form field cleaner.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}
