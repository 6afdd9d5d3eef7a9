package arbor

import "github.com/spaolacci/murmur3"

// StringID32 is the 32-bit hash of an artist-facing name.
type StringID32 uint32

// HashName returns the StringID32 of name. Resource compilers and runtime
// lookups must agree on this function.
func HashName(name string) StringID32 {
	return StringID32(murmur3.Sum32([]byte(name)))
}
