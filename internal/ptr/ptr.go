// Package ptr has generic helpers for optional fields.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

// ToString returns the string form of a string-backed enum pointer, or ""
// when nil.
func ToString[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
