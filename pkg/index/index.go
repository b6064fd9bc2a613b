// Package index provides an inverted map from fingerprint hash to its
// occurrences. The verdict path does not depend on it; it backs lookup-style
// extensions and the report's shared-fingerprint statistics.
package index

import "github.com/tattlecode/tattle/pkg/winnow"

// Posting records one occurrence of a fingerprint hash.
type Posting struct {
	File string
	Pos  int
}

// Inverted maps fingerprint hashes to their postings.
type Inverted struct {
	m map[uint32][]Posting
}

// New creates an empty inverted index.
func New() *Inverted {
	return &Inverted{m: make(map[uint32][]Posting)}
}

// Add inserts a file's fingerprints. Postings for a hash accumulate in
// insertion order.
func (ix *Inverted) Add(fileID string, fingerprints []winnow.Fingerprint) {
	for _, fp := range fingerprints {
		ix.m[fp.Hash] = append(ix.m[fp.Hash], Posting{File: fileID, Pos: fp.Pos})
	}
}

// Lookup returns the postings for a hash, nil when absent.
func (ix *Inverted) Lookup(hash uint32) []Posting {
	return ix.m[hash]
}

// Len returns the number of distinct hashes indexed.
func (ix *Inverted) Len() int {
	return len(ix.m)
}

// MaxSpread returns the hash shared by the most distinct files and that file
// count. Ties resolve to the smallest hash so the answer is deterministic.
// Returns (0, 0) for an empty index.
func (ix *Inverted) MaxSpread() (uint32, int) {
	var bestHash uint32
	best := 0
	for h, postings := range ix.m {
		files := make(map[string]bool, len(postings))
		for _, p := range postings {
			files[p.File] = true
		}
		n := len(files)
		if n > best || (n == best && best > 0 && h < bestHash) {
			best = n
			bestHash = h
		}
	}
	return bestHash, best
}
