package testkit

import (
	"sync"
	"testing"
)

// seams are package level vars shared by every test in a binary
var seams sync.Mutex

// Swap points target at v until the test ends
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

// Serial holds the seam lock for the rest of the test. Call it before Swap
// in tests that run in parallel with others touching the same vars
func Serial(t testing.TB) {
	t.Helper()
	seams.Lock()
	t.Cleanup(seams.Unlock)
}
