package utils

// Value dereferences v, giving the zero value for nil. Optional JSON fields
// from the backend decode into pointers and are read through it.
func Value[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T { return &v }

// CeilDiv returns ceil(total/limit) and never less than 1.
func CeilDiv(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Clamp bounds v to [lo, hi]. hi wins when lo > hi.
func Clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
