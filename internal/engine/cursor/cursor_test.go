package cursor

import (
	"errors"
	"testing"
)

func rng(start, end int) DirectedRange {
	return NewDirectedRange(Offset(start), Offset(end), nil)
}

// Position Tests

func TestOffsetCompare(t *testing.T) {
	a, b, c := Offset(10), Offset(20), Offset(10)

	if a.Compare(b) != -1 {
		t.Error("a should be less than b")
	}
	if b.Compare(a) != 1 {
		t.Error("b should be greater than a")
	}
	if a.Compare(c) != 0 {
		t.Error("a should equal c")
	}
}

func TestMinMax(t *testing.T) {
	if Min(Offset(3), Offset(7)) != Offset(3) {
		t.Error("Min should return the earlier position")
	}
	if Max(Offset(3), Offset(7)) != Offset(7) {
		t.Error("Max should return the later position")
	}
	if !Before(Offset(1), Offset(2)) || After(Offset(1), Offset(2)) {
		t.Error("Before/After disagree with Compare")
	}
}

// DirectedRange Tests

func TestNewDirectedRange(t *testing.T) {
	r := rng(10, 20)

	if r.Start != Offset(10) {
		t.Errorf("expected start 10, got %v", r.Start)
	}
	if r.End != Offset(20) {
		t.Errorf("expected end 20, got %v", r.End)
	}
	if r.IsReversed() {
		t.Error("forward range should not be reversed")
	}
}

func TestRangeIsReversed(t *testing.T) {
	tests := []struct {
		name     string
		r        DirectedRange
		reversed bool
	}{
		{"forward", rng(0, 5), false},
		{"backward", rng(5, 0), true},
		{"collapsed", rng(3, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsReversed(); got != tt.reversed {
				t.Errorf("IsReversed() = %v, want %v", got, tt.reversed)
			}
		})
	}
}

func TestRangeIsReversedIsDerived(t *testing.T) {
	r := rng(5, 10)
	r.End = Offset(0)

	if !r.IsReversed() {
		t.Error("moving End before Start should make the range reversed")
	}
}

func TestRangeNormalize(t *testing.T) {
	r := rng(20, 10)
	n := r.Normalize()

	if n.Start != Offset(10) || n.End != Offset(20) {
		t.Errorf("expected 10→20, got %v", n)
	}
	if r.Start != Offset(20) {
		t.Error("original range should be unchanged")
	}

	f := rng(1, 2).Normalize()
	if f.Start != Offset(1) || f.End != Offset(2) {
		t.Errorf("forward range should normalize to itself, got %v", f)
	}
}

func TestRangeAbsEquals(t *testing.T) {
	if !rng(10, 20).AbsEquals(rng(20, 10)) {
		t.Error("ranges with the same extent should be AbsEquals")
	}
	if rng(10, 20).Equals(rng(20, 10)) {
		t.Error("ranges with different direction should not be Equals")
	}
	if rng(10, 20).AbsEquals(rng(10, 21)) {
		t.Error("ranges with different extent should not be AbsEquals")
	}
}

func TestRangeDirectedBefore(t *testing.T) {
	tests := []struct {
		name  string
		r     DirectedRange
		other DirectedRange
		want  bool
	}{
		{"forward next", rng(5, 10), rng(10, 15), true},
		{"forward overlap", rng(5, 15), rng(5, 10), true},
		{"forward retreat inside", rng(5, 15), rng(10, 5), true},
		{"forward same", rng(5, 10), rng(5, 10), true},
		{"forward crossed", rng(5, 10), rng(0, 5), false},
		{"forward crossed reversed", rng(5, 10), rng(5, 0), false},
		{"backward next", rng(10, 5), rng(5, 0), true},
		{"backward retreat inside", rng(15, 5), rng(5, 10), true},
		{"backward same", rng(10, 5), rng(10, 5), true},
		{"backward crossed", rng(10, 5), rng(10, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.DirectedBefore(tt.other); got != tt.want {
				t.Errorf("%v.DirectedBefore(%v) = %v, want %v", tt.r, tt.other, got, tt.want)
			}
		})
	}
}

func TestRangeCloneDoesNotAlias(t *testing.T) {
	r := rng(1, 4)
	c := r.Clone()
	c.End = Offset(9)

	if r.End != Offset(4) {
		t.Error("mutating a clone should not affect the original")
	}
}

func TestRangeSelect(t *testing.T) {
	var got []DirectedRange
	target := SelectorFunc(func(r DirectedRange) error {
		got = append(got, r)
		return nil
	})

	r := NewDirectedRange(Offset(4), Offset(2), target)
	if err := r.Select(); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 select call, got %d", len(got))
	}
	if !got[0].Equals(r) {
		t.Errorf("selector received %v, want %v", got[0], r)
	}
}

func TestRangeSelectPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	r := NewDirectedRange(Offset(0), Offset(1), SelectorFunc(func(DirectedRange) error {
		return boom
	}))

	if err := r.Select(); !errors.Is(err, boom) {
		t.Errorf("expected selector error, got %v", err)
	}
}

func TestRangeSelectWithoutTarget(t *testing.T) {
	if err := rng(0, 1).Select(); err != nil {
		t.Errorf("untargeted Select should be a no-op, got %v", err)
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		r    DirectedRange
		want string
	}{
		{rng(1, 1), "Range(Offset(1))"},
		{rng(1, 3), "Range(Offset(1)→Offset(3))"},
		{rng(3, 1), "Range(Offset(3)←Offset(1))"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
