// Package similarity compares fingerprint hash sets and aggregates file-level
// scores into assignment-pair verdicts.
//
// Hash sets are roaring bitmaps: fingerprint hashes are bounded by the 31-bit
// prime modulus, so they fit the bitmap's uint32 domain and intersection and
// union cardinalities are exact.
package similarity

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Match pairs a source file with its best-scoring destination. Dest is empty
// when the destination side had no files.
type Match struct {
	Source string
	Dest   string
	Score  float64
}

// Verdict is the outcome of comparing two assignments.
type Verdict struct {
	Suspicious bool
	// AToB and BToA are the best-match lists, in source-file order.
	AToB []Match
	BToA []Match
	// FractionA is the fraction of A's files whose best score met the file
	// threshold; FractionB likewise for B.
	FractionA float64
	FractionB float64
}

// Jaccard returns |A∩B| / |A∪B|. Two empty (or nil) sets score 0.0 by
// convention, which also covers the empty-union case.
func Jaccard(a, b *roaring.Bitmap) float64 {
	if a == nil || b == nil || (a.IsEmpty() && b.IsEmpty()) {
		return 0.0
	}
	inter := a.AndCardinality(b)
	union := a.GetCardinality() + b.GetCardinality() - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// BestMatches finds, for each source file, the highest-scoring destination
// file. Destinations are scanned in slice order and ties keep the first one
// encountered, so callers must pass deterministically ordered slices
// (lexicographic, as produced by the scanner) for reproducible results.
func BestMatches(src, dst []string, sets map[string]*roaring.Bitmap) []Match {
	matches := make([]Match, 0, len(src))
	for _, s := range src {
		best := Match{Source: s, Score: 0.0}
		bestScore := -1.0
		for _, d := range dst {
			score := Jaccard(sets[s], sets[d])
			if score > bestScore {
				bestScore = score
				best.Dest = d
				best.Score = score
			}
		}
		matches = append(matches, best)
	}
	return matches
}

// PairVerdict compares two assignments. The pair is suspicious when, in
// either direction, at least assignmentThreshold of the source files have a
// best score of at least fileThreshold. Empty file lists produce fraction
// 0.0 rather than dividing by zero.
func PairVerdict(filesA, filesB []string, sets map[string]*roaring.Bitmap, fileThreshold, assignmentThreshold float64) Verdict {
	aToB := BestMatches(filesA, filesB, sets)
	bToA := BestMatches(filesB, filesA, sets)

	fracA := fractionMeeting(aToB, fileThreshold)
	fracB := fractionMeeting(bToA, fileThreshold)

	return Verdict{
		Suspicious: fracA >= assignmentThreshold || fracB >= assignmentThreshold,
		AToB:       aToB,
		BToA:       bToA,
		FractionA:  fracA,
		FractionB:  fracB,
	}
}

func fractionMeeting(matches []Match, threshold float64) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	count := 0
	for _, m := range matches {
		if m.Score >= threshold {
			count++
		}
	}
	return float64(count) / float64(len(matches))
}

// Top returns the k highest-scoring matches, sorted descending by score.
// The sort is stable, so ties keep their encounter order. k <= 0 yields no
// results; k beyond the input length returns everything.
func Top(matches []Match, k int) []Match {
	if k <= 0 {
		return nil
	}
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
