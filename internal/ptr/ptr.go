// Package ptr has the one pointer helper Go keeps making you write.
package ptr

// To returns a pointer to v. Useful for optional struct fields and
// update-mask params that take *T.
func To[T any](v T) *T {
	return &v
}
