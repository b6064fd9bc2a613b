package detector

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tattlecode/tattle/pkg/winnow"
)

// Assignment is one student submission: a named group of source files that
// are fingerprinted together and compared as a unit against other
// assignments.
type Assignment struct {
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

// Document is an in-memory source file ready for fingerprinting. Ext is the
// file extension hint passed to the tokenizer.
type Document struct {
	ID   string
	Text string
	Ext  string
}

// FileRecord holds the fingerprinting output for one file. Hashes is the
// deduplicated fingerprint set used for Jaccard comparison; Fingerprints
// keeps positions for future match localization.
type FileRecord struct {
	ID           string               `json:"id"`
	Fingerprints []winnow.Fingerprint `json:"fingerprints"`
	Hashes       *roaring.Bitmap      `json:"-"`
}

// Match is one file's best counterpart in the other assignment.
type Match struct {
	Left              string  `json:"left"`
	Right             string  `json:"right"`
	SimilarityPercent float64 `json:"similarity_percent"`
}

// PairDetail is the full comparison record for one assignment pair, with the
// top matches in each direction.
type PairDetail struct {
	AssignmentA string  `json:"assignment_a"`
	AssignmentB string  `json:"assignment_b"`
	Suspicious  bool    `json:"suspicious"`
	FractionA   float64 `json:"fraction_a"`
	FractionB   float64 `json:"fraction_b"`
	AToB        []Match `json:"a_to_b"`
	BToA        []Match `json:"b_to_a"`
}

// Pair names two assignments flagged as suspicious.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Summary aggregates corpus-level statistics for a run.
type Summary struct {
	Assignments     int     `json:"assignments"`
	Files           int     `json:"files"`
	Fingerprints    int     `json:"fingerprints"`
	PairsCompared   int     `json:"pairs_compared"`
	SuspiciousPairs int     `json:"suspicious_pairs"`
	MeanBestScore   float64 `json:"mean_best_score"`
	P50BestScore    float64 `json:"p50_best_score"`
	P95BestScore    float64 `json:"p95_best_score"`
	MaxSharedFiles  int     `json:"max_shared_files"`
}

// Report is the complete result of one detection run.
type Report struct {
	SuspiciousPairs []Pair       `json:"suspicious_pairs"`
	Details         []PairDetail `json:"details"`
	Summary         Summary      `json:"summary"`
}
