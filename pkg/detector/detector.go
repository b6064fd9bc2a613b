// Package detector runs the full near-duplicate detection pipeline:
// tokenize, shingle, winnow, then compare every assignment pair and flag the
// suspicious ones.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/tattlecode/tattle/internal/cache"
	"github.com/tattlecode/tattle/internal/fileproc"
	"github.com/tattlecode/tattle/pkg/index"
	"github.com/tattlecode/tattle/pkg/normalize"
	"github.com/tattlecode/tattle/pkg/shingle"
	"github.com/tattlecode/tattle/pkg/similarity"
	"github.com/tattlecode/tattle/pkg/source"
	"github.com/tattlecode/tattle/pkg/winnow"
)

// Analyzer holds the pipeline parameters. Construct with New; the zero value
// is not usable.
type Analyzer struct {
	norm                *normalize.Normalizer
	shingleSize         int
	window              int
	fileThreshold       float64
	assignmentThreshold float64
	topMatches          int
	workers             int
	cache               *cache.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithShingleSize sets the shingle length k.
func WithShingleSize(k int) Option {
	return func(a *Analyzer) { a.shingleSize = k }
}

// WithWindow sets the winnowing window size w.
func WithWindow(w int) Option {
	return func(a *Analyzer) { a.window = w }
}

// WithFileThreshold sets the per-file similarity threshold.
func WithFileThreshold(t float64) Option {
	return func(a *Analyzer) { a.fileThreshold = t }
}

// WithAssignmentThreshold sets the fraction of matching files that flags an
// assignment pair.
func WithAssignmentThreshold(t float64) Option {
	return func(a *Analyzer) { a.assignmentThreshold = t }
}

// WithTopMatches sets how many matches each pair detail reports per
// direction.
func WithTopMatches(k int) Option {
	return func(a *Analyzer) { a.topMatches = k }
}

// WithWorkers caps fingerprinting parallelism. Zero derives the count from
// the CPU count.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

// WithCache attaches a fingerprint cache.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// New creates an Analyzer with the reference defaults: k=5, w=4, thresholds
// 0.40/0.40, top 5 matches per direction.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		norm:                normalize.New(),
		shingleSize:         shingle.DefaultK,
		window:              winnow.DefaultW,
		fileThreshold:       0.40,
		assignmentThreshold: 0.40,
		topMatches:          5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DocumentGroup is one assignment's files already loaded into memory.
type DocumentGroup struct {
	Name string
	Docs []Document
}

// Analyze reads every assignment file through src, fingerprints them in
// parallel, and compares all assignment pairs. File paths double as document
// IDs. onProgress, if non-nil, is called once per fingerprinted file.
func (a *Analyzer) Analyze(ctx context.Context, assignments []Assignment, src source.ContentSource, onProgress fileproc.ProgressFunc) (*Report, error) {
	if src == nil {
		src = source.NewFilesystem()
	}

	type job struct {
		group int
		path  string
	}
	var jobs []job
	for gi, asn := range assignments {
		for _, path := range asn.Files {
			jobs = append(jobs, job{group: gi, path: path})
		}
	}

	records, errs := fileproc.Map(ctx, jobs, a.workers, func(j job) (FileRecord, error) {
		raw, err := src.Read(j.path)
		if err != nil {
			return FileRecord{}, fmt.Errorf("read %s: %w", j.path, err)
		}
		return a.fingerprintBytes(j.path, raw), nil
	}, onProgress)
	if err := fileproc.FirstError(errs); err != nil {
		return nil, err
	}

	groups := make([]recordGroup, len(assignments))
	for gi, asn := range assignments {
		groups[gi].name = asn.Name
	}
	for i, j := range jobs {
		groups[j.group].records = append(groups[j.group].records, records[i])
	}

	return a.buildReport(groups), nil
}

// AnalyzeDocuments runs the pipeline over in-memory documents, bypassing the
// filesystem and the cache.
func (a *Analyzer) AnalyzeDocuments(ctx context.Context, groups []DocumentGroup, onProgress fileproc.ProgressFunc) (*Report, error) {
	var docs []Document
	var owners []int
	for gi, g := range groups {
		for _, d := range g.Docs {
			docs = append(docs, d)
			owners = append(owners, gi)
		}
	}

	records, errs := fileproc.Map(ctx, docs, a.workers, func(d Document) (FileRecord, error) {
		return a.fingerprintText(d.ID, d.Text, d.Ext), nil
	}, onProgress)
	if err := fileproc.FirstError(errs); err != nil {
		return nil, err
	}

	recGroups := make([]recordGroup, len(groups))
	for gi, g := range groups {
		recGroups[gi].name = g.Name
	}
	for i, gi := range owners {
		recGroups[gi].records = append(recGroups[gi].records, records[i])
	}

	return a.buildReport(recGroups), nil
}

// fingerprintBytes fingerprints raw file content, consulting the cache when
// one is attached. Cache entries are keyed by path and validated against a
// content hash, so edits invalidate them immediately.
func (a *Analyzer) fingerprintBytes(path string, raw []byte) FileRecord {
	if a.cache != nil {
		hash := cache.HashBytes(raw)
		if data, ok := a.cache.GetWithHash(path, hash); ok {
			var fps []winnow.Fingerprint
			if err := json.Unmarshal(data, &fps); err == nil {
				return newRecord(path, fps)
			}
		}
		rec := a.fingerprintText(path, source.DecodeText(raw), filepath.Ext(path))
		if data, err := json.Marshal(rec.Fingerprints); err == nil {
			a.cache.SetWithHash(path, hash, data)
		}
		return rec
	}
	return a.fingerprintText(path, source.DecodeText(raw), filepath.Ext(path))
}

// fingerprintText runs tokenize, shingle, winnow for one document.
func (a *Analyzer) fingerprintText(id, text, ext string) FileRecord {
	tokens := a.norm.Tokens(text, ext)
	hashes := shingle.Hashes(tokens, a.shingleSize)
	fps := winnow.Select(hashes, a.window)
	return newRecord(id, fps)
}

func newRecord(id string, fps []winnow.Fingerprint) FileRecord {
	bm := roaring.New()
	for _, fp := range fps {
		bm.Add(fp.Hash)
	}
	return FileRecord{ID: id, Fingerprints: fps, Hashes: bm}
}

type recordGroup struct {
	name    string
	records []FileRecord
}

// buildReport compares every assignment pair and aggregates the summary.
// Assignments with no files are excluded from pairing. Pair iteration
// follows assignment-name order, so the report is deterministic for a given
// corpus.
func (a *Analyzer) buildReport(groups []recordGroup) *Report {
	sets := make(map[string]*roaring.Bitmap)
	inv := index.New()
	totalFiles := 0
	totalFingerprints := 0
	for _, g := range groups {
		for _, r := range g.records {
			sets[r.ID] = r.Hashes
			inv.Add(r.ID, r.Fingerprints)
			totalFiles++
			totalFingerprints += len(r.Fingerprints)
		}
	}

	var nonEmpty []recordGroup
	for _, g := range groups {
		if len(g.records) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	sort.Slice(nonEmpty, func(i, j int) bool { return nonEmpty[i].name < nonEmpty[j].name })

	report := &Report{
		SuspiciousPairs: []Pair{},
		Details:         []PairDetail{},
	}
	var bestScores []float64

	for i := 0; i < len(nonEmpty); i++ {
		for j := i + 1; j < len(nonEmpty); j++ {
			ga, gb := nonEmpty[i], nonEmpty[j]
			verdict := similarity.PairVerdict(fileIDs(ga), fileIDs(gb), sets, a.fileThreshold, a.assignmentThreshold)

			for _, m := range verdict.AToB {
				bestScores = append(bestScores, m.Score)
			}
			for _, m := range verdict.BToA {
				bestScores = append(bestScores, m.Score)
			}

			detail := PairDetail{
				AssignmentA: ga.name,
				AssignmentB: gb.name,
				Suspicious:  verdict.Suspicious,
				FractionA:   verdict.FractionA,
				FractionB:   verdict.FractionB,
				AToB:        toMatches(similarity.Top(verdict.AToB, a.topMatches)),
				BToA:        toMatches(similarity.Top(verdict.BToA, a.topMatches)),
			}
			report.Details = append(report.Details, detail)
			report.Summary.PairsCompared++

			if verdict.Suspicious {
				report.SuspiciousPairs = append(report.SuspiciousPairs, Pair{A: ga.name, B: gb.name})
			}
		}
	}

	report.Summary.Assignments = len(nonEmpty)
	report.Summary.Files = totalFiles
	report.Summary.Fingerprints = totalFingerprints
	report.Summary.SuspiciousPairs = len(report.SuspiciousPairs)
	_, report.Summary.MaxSharedFiles = inv.MaxSpread()

	if len(bestScores) > 0 {
		sort.Float64s(bestScores)
		report.Summary.MeanBestScore = stat.Mean(bestScores, nil)
		report.Summary.P50BestScore = stat.Quantile(0.50, stat.Empirical, bestScores, nil)
		report.Summary.P95BestScore = stat.Quantile(0.95, stat.Empirical, bestScores, nil)
	}

	return report
}

func fileIDs(g recordGroup) []string {
	ids := make([]string, 0, len(g.records))
	for _, r := range g.records {
		ids = append(ids, r.ID)
	}
	return ids
}

func toMatches(in []similarity.Match) []Match {
	out := make([]Match, 0, len(in))
	for _, m := range in {
		out = append(out, Match{
			Left:              m.Source,
			Right:             m.Dest,
			SimilarityPercent: m.Score * 100,
		})
	}
	return out
}
