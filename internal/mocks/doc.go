// Package mocks provides centralized mock implementations for testing.
//
// The mocks follow one pattern: an optional XxxFn function field overrides the
// behaviour, default response fields are returned otherwise, and every call is
// recorded under a mutex so tests can assert on call counts and arguments.
//
//	import "github.com/phrazzld/lecturenotes/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    gen := mocks.NewMockGeneratorWithText("Q1: ...")
//	    // pass gen wherever a provider.Generator is expected, then
//	    assert.Equal(t, 1, gen.CallCount())
//	}
package mocks
