package output

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tattlecode/tattle/pkg/detector"
)

var (
	pairHeaderRe = regexp.MustCompile(`^--- Details for pair: (.+?) <-> (.+?) ---$`)
	topLabelRe   = regexp.MustCompile(`^Top matches (.+?)→(.+?):$`)
	matchLineRe  = regexp.MustCompile(`^\s+(.+?)\s+~~\s+([0-9.]+)%\s+~~\s+(.+?)\s*$`)
)

// ReportView renders a detection report. The text form is a stable contract:
// the serve endpoint re-parses it with ParseText, so the line shapes here and
// the regexps there must move together.
type ReportView struct {
	Report      *detector.Report
	ShowDetails bool
}

func (v *ReportView) RenderData() any {
	return v.Report
}

func (v *ReportView) RenderText(w io.Writer, colored bool) error {
	if v.ShowDetails {
		for _, d := range v.Report.Details {
			fmt.Fprintf(w, "--- Details for pair: %s <-> %s ---\n", d.AssignmentA, d.AssignmentB)
			writeDirection(w, d.AssignmentA, d.AssignmentB, d.AToB)
			writeDirection(w, d.AssignmentB, d.AssignmentA, d.BToA)
			fmt.Fprintln(w)
		}
	}

	if colored {
		color.New(color.Bold).Fprintln(w, "Suspicious Assignment Pairs:")
	} else {
		fmt.Fprintln(w, "Suspicious Assignment Pairs:")
	}
	if len(v.Report.SuspiciousPairs) == 0 {
		fmt.Fprintln(w, "(none)")
		return nil
	}
	for _, p := range v.Report.SuspiciousPairs {
		line := fmt.Sprintf("%s ↔ %s", p.A, p.B)
		if colored {
			line = color.RedString(line)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func writeDirection(w io.Writer, from, to string, matches []detector.Match) {
	fmt.Fprintf(w, "Top matches %s→%s:\n", from, to)
	for _, m := range matches {
		// A file with no counterpart on the other side has nothing to show.
		if m.Right == "" {
			continue
		}
		fmt.Fprintf(w, "  %s  ~~ %.2f%% ~~  %s\n", m.Left, m.SimilarityPercent, m.Right)
	}
}

func (v *ReportView) RenderMarkdown(w io.Writer) error {
	if v.ShowDetails {
		for _, d := range v.Report.Details {
			fmt.Fprintf(w, "### %s vs %s\n\n", d.AssignmentA, d.AssignmentB)
			writeDirectionMarkdown(w, d.AssignmentA, d.AssignmentB, d.AToB)
			writeDirectionMarkdown(w, d.AssignmentB, d.AssignmentA, d.BToA)
		}
	}

	fmt.Fprintf(w, "## Suspicious Assignment Pairs\n\n")
	if len(v.Report.SuspiciousPairs) == 0 {
		fmt.Fprintln(w, "_none_")
		return nil
	}
	for _, p := range v.Report.SuspiciousPairs {
		fmt.Fprintf(w, "- %s ↔ %s\n", p.A, p.B)
	}
	fmt.Fprintln(w)
	return nil
}

func writeDirectionMarkdown(w io.Writer, from, to string, matches []detector.Match) {
	fmt.Fprintf(w, "**Top matches %s→%s:**\n\n", from, to)
	for _, m := range matches {
		if m.Right == "" {
			continue
		}
		fmt.Fprintf(w, "- `%s` ~ %.2f%% ~ `%s`\n", m.Left, m.SimilarityPercent, m.Right)
	}
	fmt.Fprintln(w)
}

// SummaryTable builds a renderable table from run statistics.
func SummaryTable(s detector.Summary) *Table {
	rows := [][]string{
		{"Assignments", strconv.Itoa(s.Assignments)},
		{"Files", strconv.Itoa(s.Files)},
		{"Fingerprints", strconv.Itoa(s.Fingerprints)},
		{"Pairs compared", strconv.Itoa(s.PairsCompared)},
		{"Suspicious pairs", strconv.Itoa(s.SuspiciousPairs)},
		{"Mean best score", fmt.Sprintf("%.4f", s.MeanBestScore)},
		{"P50 best score", fmt.Sprintf("%.4f", s.P50BestScore)},
		{"P95 best score", fmt.Sprintf("%.4f", s.P95BestScore)},
		{"Max files sharing a fingerprint", strconv.Itoa(s.MaxSharedFiles)},
	}
	return NewTable("Run Summary", []string{"Metric", "Value"}, rows, nil, s)
}

// ParsedReport is the structured form recovered from rendered text output.
type ParsedReport struct {
	SuspiciousPairs []detector.Pair       `json:"suspicious_pairs"`
	Details         []detector.PairDetail `json:"details"`
}

// ParseText reconstructs a report from uncolored text produced by
// RenderText. Fractions are not present in the text and come back as zero.
func ParseText(r io.Reader) (*ParsedReport, error) {
	parsed := &ParsedReport{
		SuspiciousPairs: []detector.Pair{},
		Details:         []detector.PairDetail{},
	}

	var current *detector.PairDetail
	var direction *[]detector.Match
	inSuspicious := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := pairHeaderRe.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				parsed.Details = append(parsed.Details, *current)
			}
			current = &detector.PairDetail{
				AssignmentA: m[1],
				AssignmentB: m[2],
				AToB:        []detector.Match{},
				BToA:        []detector.Match{},
			}
			direction = nil
			inSuspicious = false
			continue
		}

		if m := topLabelRe.FindStringSubmatch(trimmed); m != nil && current != nil {
			if m[1] == current.AssignmentA {
				direction = &current.AToB
			} else {
				direction = &current.BToA
			}
			continue
		}

		if trimmed == "Suspicious Assignment Pairs:" {
			if current != nil {
				parsed.Details = append(parsed.Details, *current)
				current = nil
			}
			inSuspicious = true
			continue
		}

		if inSuspicious {
			if trimmed == "(none)" {
				continue
			}
			if a, b, ok := strings.Cut(trimmed, " ↔ "); ok {
				parsed.SuspiciousPairs = append(parsed.SuspiciousPairs, detector.Pair{A: a, B: b})
			}
			continue
		}

		if m := matchLineRe.FindStringSubmatch(line); m != nil && direction != nil {
			score, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("bad similarity %q: %w", m[2], err)
			}
			*direction = append(*direction, detector.Match{
				Left:              m[1],
				Right:             m[3],
				SimilarityPercent: score,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		parsed.Details = append(parsed.Details, *current)
	}

	suspicious := make(map[detector.Pair]bool, len(parsed.SuspiciousPairs))
	for _, p := range parsed.SuspiciousPairs {
		suspicious[p] = true
	}
	for i := range parsed.Details {
		d := &parsed.Details[i]
		d.Suspicious = suspicious[detector.Pair{A: d.AssignmentA, B: d.AssignmentB}]
	}

	return parsed, nil
}
