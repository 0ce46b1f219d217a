// Package memzero provides best-effort wiping of sensitive byte slices.
package memzero

// Zero overwrites b with zeros. Best effort only: the runtime may hold
// other copies the caller cannot reach.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
