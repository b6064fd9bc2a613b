// Package shingle computes Rabin-Karp rolling hashes over k-token windows.
//
// Tokens are first mapped to bounded integers with a fixed polynomial
// character hash, then a rolling polynomial hash slides over the integer
// sequence. Both hashes use the prime modulus 2^31-1, so every emitted value
// fits an unsigned 31-bit integer. The constants are a compatibility
// contract: changing any of them changes every fingerprint.
package shingle

// DefaultK is the default shingle size.
const DefaultK = 5

const (
	tokenBase = 131
	hashBase  = 257

	// Modulus is the prime 2^31 - 1 bounding all hash values.
	Modulus = 2147483647
)

// Shingle is the rolling hash of the k tokens starting at Pos.
type Shingle struct {
	Hash uint32
	Pos  int
}

// TokenValue maps a token to a stable integer in [0, Modulus). The mapping
// is a polynomial hash over the token's runes, independent of any process
// seed, so it is identical across runs and hosts.
func TokenValue(tok string) uint32 {
	var v uint64
	for _, r := range tok {
		v = (v*tokenBase + uint64(r)) % Modulus
	}
	return uint32(v)
}

// Hashes returns one Shingle per contiguous k-token window, in increasing
// start order. Returns nil when k <= 0 or the stream is shorter than k.
//
// The first window is hashed directly; each subsequent window is derived
// incrementally by dropping the leading term and appending the trailing one.
// Subtraction is done by adding Modulus first so the intermediate value never
// goes negative.
func Hashes(tokens []string, k int) []Shingle {
	n := len(tokens)
	if k <= 0 || n < k {
		return nil
	}

	vals := make([]uint64, n)
	for i, t := range tokens {
		vals[i] = uint64(TokenValue(t))
	}

	// hashBase^(k-1) mod Modulus, the weight of a window's leading token.
	pow := uint64(1)
	for i := 0; i < k-1; i++ {
		pow = pow * hashBase % Modulus
	}

	var h uint64
	for i := 0; i < k; i++ {
		h = (h*hashBase + vals[i]) % Modulus
	}

	out := make([]Shingle, 0, n-k+1)
	out = append(out, Shingle{Hash: uint32(h), Pos: 0})

	for i := 1; i <= n-k; i++ {
		leading := vals[i-1] * pow % Modulus
		h = (h + Modulus - leading) % Modulus
		h = (h*hashBase + vals[i+k-1]) % Modulus
		out = append(out, Shingle{Hash: uint32(h), Pos: i})
	}

	return out
}
