package walker

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/engine/document"
)

const sample = `# Getting started

Read the *short* guide.

- install it
`

func newWalker(t *testing.T) (*Walker, *document.Document) {
	t.Helper()
	doc, err := document.ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return New(doc), doc
}

// collect walks forward from the document start and returns unit texts.
func collect(t *testing.T, w *Walker, g Granularity) []string {
	t.Helper()
	doc := w.Document()
	var out []string
	r := cursor.NewCollapsedRange(doc.Start(), doc)
	for {
		next, err := w.Next(r, g)
		if errors.Is(err, ErrNoMore) {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if next.IsReversed() {
			t.Errorf("Next returned reversed range %v", next)
		}
		out = append(out, doc.Text(next))
		r = next
	}
}

func TestNextWords(t *testing.T) {
	w, _ := newWalker(t)

	want := []string{"Getting", "started", "Read", "the", "short", "guide.", "install", "it"}
	if diff := cmp.Diff(want, collect(t, w, Word)); diff != "" {
		t.Errorf("words (-want +got):\n%s", diff)
	}
	if w.Count(Word) != len(want) {
		t.Errorf("Count(Word) = %d, want %d", w.Count(Word), len(want))
	}
}

func TestNextObjects(t *testing.T) {
	w, _ := newWalker(t)

	want := []string{"Getting started", "Read the", "short", "guide.", "install it"}
	if diff := cmp.Diff(want, collect(t, w, Object)); diff != "" {
		t.Errorf("objects (-want +got):\n%s", diff)
	}
}

func TestNextBlocks(t *testing.T) {
	w, _ := newWalker(t)

	want := []string{"Getting started", "Read the short guide.", "install it"}
	if diff := cmp.Diff(want, collect(t, w, Block)); diff != "" {
		t.Errorf("blocks (-want +got):\n%s", diff)
	}
}

func TestPrevWalksBackwardReversed(t *testing.T) {
	w, doc := newWalker(t)

	r, err := w.Last(Word)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}

	var got []string
	for {
		if !r.IsReversed() {
			t.Errorf("backward step %v should be reversed", r)
		}
		got = append(got, doc.Text(r))
		r, err = w.Prev(r, Word)
		if errors.Is(err, ErrNoMore) {
			break
		}
		if err != nil {
			t.Fatalf("Prev failed: %v", err)
		}
	}

	want := []string{"it", "install", "guide.", "short", "the", "Read", "started", "Getting"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reverse words (-want +got):\n%s", diff)
	}
}

func TestNextPrevRoundTrip(t *testing.T) {
	w, doc := newWalker(t)

	first, _ := w.First(Word)
	second, err := w.Next(first, Word)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	back, err := w.Prev(second, Word)
	if err != nil {
		t.Fatalf("Prev failed: %v", err)
	}

	if !back.AbsEquals(first) {
		t.Errorf("Prev(Next(x)) = %q, want %q", doc.Text(back), doc.Text(first))
	}
	if !back.IsReversed() {
		t.Error("Prev result should be reversed")
	}
}

func TestBoundaries(t *testing.T) {
	w, doc := newWalker(t)

	start := cursor.NewCollapsedRange(doc.Start(), doc)
	if _, err := w.Prev(start, Word); !errors.Is(err, ErrNoMore) {
		t.Errorf("Prev at start: expected ErrNoMore, got %v", err)
	}

	end := cursor.NewCollapsedRange(doc.End(), doc)
	if _, err := w.Next(end, Block); !errors.Is(err, ErrNoMore) {
		t.Errorf("Next at end: expected ErrNoMore, got %v", err)
	}
}

func TestAt(t *testing.T) {
	w, doc := newWalker(t)

	r, err := w.At(doc.Pos(0, 9), Word)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if got := doc.Text(r); got != "started" {
		t.Errorf("expected %q, got %q", "started", got)
	}
}

func TestForeignRange(t *testing.T) {
	w, _ := newWalker(t)

	r := cursor.NewDirectedRange(cursor.Offset(0), cursor.Offset(1), nil)
	if _, err := w.Next(r, Word); !errors.Is(err, document.ErrForeignPosition) {
		t.Errorf("expected ErrForeignPosition, got %v", err)
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in   string
		want Granularity
		err  bool
	}{
		{"word", Word, false},
		{"line", Object, false},
		{"Object", Object, false},
		{"block", Block, false},
		{"page", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseGranularity(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseGranularity(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.err && got != tt.want {
			t.Errorf("ParseGranularity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
