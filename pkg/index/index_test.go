package index

import (
	"reflect"
	"testing"

	"github.com/tattlecode/tattle/pkg/winnow"
)

func TestAddAndLookup(t *testing.T) {
	ix := New()
	ix.Add("a.c", []winnow.Fingerprint{{Hash: 10, Pos: 0}, {Hash: 20, Pos: 5}})
	ix.Add("b.c", []winnow.Fingerprint{{Hash: 10, Pos: 3}})

	got := ix.Lookup(10)
	want := []Posting{{File: "a.c", Pos: 0}, {File: "b.c", Pos: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(10) = %v, want %v", got, want)
	}

	if got := ix.Lookup(99); got != nil {
		t.Errorf("Lookup(absent) = %v, want nil", got)
	}

	if ix.Len() != 2 {
		t.Errorf("Len = %d, want 2", ix.Len())
	}
}

func TestMaxSpread(t *testing.T) {
	ix := New()
	ix.Add("a.c", []winnow.Fingerprint{{Hash: 7, Pos: 0}, {Hash: 8, Pos: 1}})
	ix.Add("b.c", []winnow.Fingerprint{{Hash: 7, Pos: 2}})
	ix.Add("c.c", []winnow.Fingerprint{{Hash: 7, Pos: 4}, {Hash: 8, Pos: 9}})

	hash, spread := ix.MaxSpread()
	if hash != 7 || spread != 3 {
		t.Errorf("MaxSpread = (%d, %d), want (7, 3)", hash, spread)
	}
}

func TestMaxSpread_TieSmallestHash(t *testing.T) {
	ix := New()
	ix.Add("a.c", []winnow.Fingerprint{{Hash: 30, Pos: 0}, {Hash: 20, Pos: 1}})
	ix.Add("b.c", []winnow.Fingerprint{{Hash: 30, Pos: 0}, {Hash: 20, Pos: 1}})

	hash, spread := ix.MaxSpread()
	if hash != 20 || spread != 2 {
		t.Errorf("MaxSpread = (%d, %d), want (20, 2)", hash, spread)
	}
}

func TestMaxSpread_Empty(t *testing.T) {
	hash, spread := New().MaxSpread()
	if hash != 0 || spread != 0 {
		t.Errorf("MaxSpread(empty) = (%d, %d), want (0, 0)", hash, spread)
	}
}

func TestSameFileCountedOnce(t *testing.T) {
	ix := New()
	ix.Add("a.c", []winnow.Fingerprint{{Hash: 5, Pos: 0}, {Hash: 5, Pos: 9}})

	if _, spread := ix.MaxSpread(); spread != 1 {
		t.Errorf("spread counts positions, want distinct files")
	}
	if got := len(ix.Lookup(5)); got != 2 {
		t.Errorf("postings = %d, want 2", got)
	}
}
