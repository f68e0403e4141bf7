package symbols

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIsIdempotent(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", in.KeyOf(a))
}

func TestInternDistinctKeysGetDistinctSymbols(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotEqual(t, a, b)
}

func TestInvalidSymbolIsZero(t *testing.T) {
	assert.Equal(t, Symbol(0), Invalid)
}

func TestInternSurvivesRehash(t *testing.T) {
	in := NewInterner()

	assigned := make(map[string]Symbol)
	// Push well past the 90% load-factor threshold of the initial 256-slot
	// table so at least one grow() happens mid-test.
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("sym_%d", i)
		assigned[key] = in.Intern(key)
	}

	for key, sym := range assigned {
		require.Equal(t, sym, in.Intern(key), "symbol for %q changed after rehash", key)
		require.Equal(t, key, in.KeyOf(sym))
	}
}

func TestInternOrderIsDense(t *testing.T) {
	in := NewInterner()
	for i := 0; i < 10; i++ {
		sym := in.Intern(fmt.Sprintf("k%d", i))
		assert.Equal(t, Symbol(i+1), sym)
	}
	assert.Equal(t, 10, in.Len())
}

func TestCityHash32StableAcrossLengthBuckets(t *testing.T) {
	// Exercise every length-class branch in cityHash32 without asserting
	// specific digest values (this is a distribution hash, not a
	// standardized digest) -- just that it's a pure function of its input.
	inputs := []string{
		"",
		"a",
		"ab",
		"abcd",
		"abcde",
		"abcdefghijkl",
		"abcdefghijklm",
		"abcdefghijklmnopqrstuvwx",
		"abcdefghijklmnopqrstuvwxy",
		"the quick brown fox jumps over the lazy dog, twice for good measure",
	}
	for _, in := range inputs {
		assert.Equal(t, cityHash32(in), cityHash32(in), "hash must be deterministic for %q", in)
	}
}
