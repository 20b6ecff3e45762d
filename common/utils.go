package common

// Coalesce returns the first value that is not the zero value of T, or the zero value.
// Config loading uses it to let absent JSON fields fall back to defaults:
//
//	c.Bounces = Coalesce(c.Bounces, defaults.Bounces)
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
