package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tattlecode/tattle/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanCorpus_GroupsByTopLevelDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bob", "main.c"), "int main() {}")
	writeFile(t, filepath.Join(root, "alice", "main.c"), "int main() {}")
	writeFile(t, filepath.Join(root, "alice", "util.h"), "#pragma once")

	assignments, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
	// Lexicographic: alice before bob.
	if assignments[0].Name != "alice" || assignments[1].Name != "bob" {
		t.Errorf("order = %s, %s", assignments[0].Name, assignments[1].Name)
	}
	if len(assignments[0].Files) != 2 {
		t.Errorf("alice files = %v", assignments[0].Files)
	}
	if len(assignments[1].Files) != 1 {
		t.Errorf("bob files = %v", assignments[1].Files)
	}
}

func TestScanCorpus_FilesSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "z.c"), "")
	writeFile(t, filepath.Join(root, "a", "m.c"), "")
	writeFile(t, filepath.Join(root, "a", "sub", "a.c"), "")

	assignments, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	files := assignments[0].Files
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("files not sorted: %v", files)
		}
	}
	if len(files) != 3 {
		t.Errorf("files = %v, want 3 entries including nested", files)
	}
}

func TestScanCorpus_SkipsDisallowedExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "main.cpp"), "")
	writeFile(t, filepath.Join(root, "a", "binary.exe"), "")
	writeFile(t, filepath.Join(root, "a", "notes.txt"), "")

	assignments, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(assignments[0].Files) != 1 {
		t.Errorf("files = %v, want only main.cpp", assignments[0].Files)
	}
}

func TestScanCorpus_SkipsHiddenAndIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "main.c"), "")
	writeFile(t, filepath.Join(root, "a", ".hidden.c"), "")
	writeFile(t, filepath.Join(root, "a", "__pycache__", "cached.py"), "")
	writeFile(t, filepath.Join(root, ".git", "config.py"), "")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "")

	assignments, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	// .git and node_modules must not become assignments.
	if len(assignments) != 1 || assignments[0].Name != "a" {
		t.Fatalf("assignments = %+v", assignments)
	}
	if len(assignments[0].Files) != 1 {
		t.Errorf("files = %v, want only main.c", assignments[0].Files)
	}
}

func TestScanCorpus_EmptyAssignmentIncluded(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "full", "x.c"), "")

	assignments, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	// Downstream decides whether to drop empty assignments.
	if len(assignments) != 2 {
		t.Fatalf("assignments = %+v", assignments)
	}
	if len(assignments[0].Files) != 0 {
		t.Errorf("empty assignment has files: %v", assignments[0].Files)
	}
}

func TestScanCorpus_MissingRoot(t *testing.T) {
	_, err := New(config.DefaultConfig()).ScanCorpus(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Error("expected error for missing corpus root")
	}
}

func TestScanCorpus_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b/1.c", "b/2.c", "a/x.py", "c/q.js"} {
		writeFile(t, filepath.Join(root, p), "")
	}

	s := New(config.DefaultConfig())
	first, err := s.ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(config.DefaultConfig()).ScanCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("assignment %d: %s vs %s", i, first[i].Name, second[i].Name)
		}
		if len(first[i].Files) != len(second[i].Files) {
			t.Errorf("assignment %s file counts differ", first[i].Name)
			continue
		}
		for j := range first[i].Files {
			if first[i].Files[j] != second[i].Files[j] {
				t.Errorf("file %d of %s: %s vs %s", j, first[i].Name, first[i].Files[j], second[i].Files[j])
			}
		}
	}
}
