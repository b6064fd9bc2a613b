// Package winnow selects representative fingerprints from a shingle hash
// sequence. A window of w consecutive hashes slides over the sequence; each
// window contributes its minimum hash, rightmost on ties, and a selection is
// emitted only when it changes from the previous one. Any shared token run of
// length >= w between two files is guaranteed to surface at least one common
// fingerprint.
package winnow

import "github.com/tattlecode/tattle/pkg/shingle"

// DefaultW is the default winnowing window size.
const DefaultW = 4

// Fingerprint is a retained (hash, position) pair, the unit of comparison
// between files.
type Fingerprint struct {
	Hash uint32 `json:"hash"`
	Pos  int    `json:"pos"`
}

// Select applies winnowing with window size w. The result has set semantics
// (no duplicate pairs) and deterministic order: selections appear in emission
// order, which is strictly increasing by position. Returns nil when w <= 0 or
// the sequence is empty. If the whole sequence is shorter than w, the single
// window covers all of it.
func Select(hashes []shingle.Shingle, w int) []Fingerprint {
	if w <= 0 || len(hashes) == 0 {
		return nil
	}

	n := len(hashes)
	width := w
	if width > n {
		width = n
	}

	pickMin := func(start, end int) shingle.Shingle {
		min := hashes[start]
		for i := start + 1; i < end; i++ {
			// Rightmost minimum: ties go to the larger index.
			if hashes[i].Hash <= min.Hash {
				min = hashes[i]
			}
		}
		return min
	}

	var out []Fingerprint
	seen := make(map[Fingerprint]bool)

	emit := func(s shingle.Shingle) {
		fp := Fingerprint{Hash: s.Hash, Pos: s.Pos}
		if !seen[fp] {
			seen[fp] = true
			out = append(out, fp)
		}
	}

	current := pickMin(0, width)
	emit(current)

	for right := width; right < n; right++ {
		next := pickMin(right-width+1, right+1)
		if next != current {
			current = next
			emit(current)
		}
	}

	return out
}
