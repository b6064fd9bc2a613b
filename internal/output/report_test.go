package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tattlecode/tattle/pkg/detector"
)

func sampleReport() *detector.Report {
	return &detector.Report{
		SuspiciousPairs: []detector.Pair{{A: "alice", B: "bob"}},
		Details: []detector.PairDetail{
			{
				AssignmentA: "alice",
				AssignmentB: "bob",
				Suspicious:  true,
				AToB: []detector.Match{
					{Left: "alice/main.c", Right: "bob/main.c", SimilarityPercent: 100.0},
					{Left: "alice/util.c", Right: "bob/helper.c", SimilarityPercent: 57.14},
				},
				BToA: []detector.Match{
					{Left: "bob/main.c", Right: "alice/main.c", SimilarityPercent: 100.0},
				},
			},
			{
				AssignmentA: "alice",
				AssignmentB: "carol",
				AToB: []detector.Match{
					{Left: "alice/main.c", Right: "carol/fib.py", SimilarityPercent: 3.5},
				},
				BToA: []detector.Match{
					{Left: "carol/fib.py", Right: "alice/main.c", SimilarityPercent: 3.5},
				},
			},
		},
		Summary: detector.Summary{Assignments: 3, Files: 4, PairsCompared: 2, SuspiciousPairs: 1},
	}
}

func TestRenderText_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	view := &ReportView{Report: sampleReport(), ShowDetails: true}
	if err := view.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"--- Details for pair: alice <-> bob ---",
		"Top matches alice→bob:",
		"  alice/main.c  ~~ 100.00% ~~  bob/main.c",
		"  alice/util.c  ~~ 57.14% ~~  bob/helper.c",
		"Top matches bob→alice:",
		"Suspicious Assignment Pairs:",
		"alice ↔ bob",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderText_NoSuspiciousPairs(t *testing.T) {
	var buf bytes.Buffer
	view := &ReportView{Report: &detector.Report{}}
	if err := view.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(none)") {
		t.Errorf("expected (none):\n%s", buf.String())
	}
}

func TestRenderText_SkipsEmptyDestination(t *testing.T) {
	report := &detector.Report{
		Details: []detector.PairDetail{{
			AssignmentA: "a",
			AssignmentB: "b",
			AToB:        []detector.Match{{Left: "a/x.c", Right: "", SimilarityPercent: 0}},
		}},
	}
	var buf bytes.Buffer
	view := &ReportView{Report: report, ShowDetails: true}
	if err := view.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "~~") {
		t.Errorf("match line emitted for empty destination:\n%s", buf.String())
	}
}

func TestParseText_RoundTrip(t *testing.T) {
	report := sampleReport()
	var buf bytes.Buffer
	view := &ReportView{Report: report, ShowDetails: true}
	if err := view.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseText(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(parsed.SuspiciousPairs) != 1 || parsed.SuspiciousPairs[0] != (detector.Pair{A: "alice", B: "bob"}) {
		t.Errorf("suspicious pairs = %+v", parsed.SuspiciousPairs)
	}
	if len(parsed.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(parsed.Details))
	}

	first := parsed.Details[0]
	if first.AssignmentA != "alice" || first.AssignmentB != "bob" {
		t.Errorf("pair = %s/%s", first.AssignmentA, first.AssignmentB)
	}
	if !first.Suspicious {
		t.Error("first detail should be suspicious")
	}
	if len(first.AToB) != 2 {
		t.Fatalf("AToB = %+v", first.AToB)
	}
	if first.AToB[1].SimilarityPercent != 57.14 {
		t.Errorf("score = %v, want 57.14", first.AToB[1].SimilarityPercent)
	}
	if first.AToB[1].Left != "alice/util.c" || first.AToB[1].Right != "bob/helper.c" {
		t.Errorf("match = %+v", first.AToB[1])
	}
	if len(first.BToA) != 1 || first.BToA[0].Left != "bob/main.c" {
		t.Errorf("BToA = %+v", first.BToA)
	}

	second := parsed.Details[1]
	if second.Suspicious {
		t.Error("alice/carol should not be suspicious")
	}
}

func TestParseText_NonePairs(t *testing.T) {
	text := "Suspicious Assignment Pairs:\n(none)\n"
	parsed, err := ParseText(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.SuspiciousPairs) != 0 {
		t.Errorf("pairs = %+v", parsed.SuspiciousPairs)
	}
}

func TestParseText_Empty(t *testing.T) {
	parsed, err := ParseText(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Details) != 0 || len(parsed.SuspiciousPairs) != 0 {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestParseText_FilenamesWithSpaces(t *testing.T) {
	text := "--- Details for pair: hw one <-> hw two ---\n" +
		"Top matches hw one→hw two:\n" +
		"  my file.c  ~~ 42.00% ~~  their file.c\n" +
		"Suspicious Assignment Pairs:\n(none)\n"

	parsed, err := ParseText(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Details) != 1 {
		t.Fatalf("details = %+v", parsed.Details)
	}
	m := parsed.Details[0].AToB[0]
	if m.Left != "my file.c" || m.Right != "their file.c" || m.SimilarityPercent != 42.0 {
		t.Errorf("match = %+v", m)
	}
}

func TestSummaryTable(t *testing.T) {
	table := SummaryTable(detector.Summary{Assignments: 3, Files: 7, PairsCompared: 3})
	if len(table.Rows) != 9 {
		t.Errorf("rows = %d", len(table.Rows))
	}
	if table.Rows[0][1] != "3" || table.Rows[1][1] != "7" {
		t.Errorf("rows = %v", table.Rows[:2])
	}
}
