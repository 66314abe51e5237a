package cryptox

import "testing"

// inTest reports whether the running binary is a test binary.
var inTest = testing.Testing

// WeakenKDFForTesting swaps the Argon2id cost for a trivially cheap one and
// returns a function restoring the real parameters. Files written while it is
// in effect cannot be opened with the real parameters. It panics outside test
// binaries, so a release build always derives keys at full cost.
func WeakenKDFForTesting() (restore func()) {
	if !inTest() {
		panic("cryptox: WeakenKDFForTesting called outside a test binary")
	}
	saved := argon
	argon = argon2Params{time: 1, memory: 8, threads: 1}
	return func() { argon = saved }
}
