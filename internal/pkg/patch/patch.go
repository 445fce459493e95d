// Package patch holds helpers for optional request fields.
package patch

// Coalesce dereferences ptr when set and falls back otherwise. Handlers use
// it to apply policy defaults for omitted DTO fields.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
