package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/session"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		in      string
		want    step
		wantErr bool
	}{
		{"next", step{Dir: session.Forward, Unit: walker.Word}, false},
		{"prev", step{Dir: session.Backward, Unit: walker.Word}, false},
		{"select-next", step{Select: true, Dir: session.Forward, Unit: walker.Word}, false},
		{"select-prev:line", step{Select: true, Dir: session.Backward, Unit: walker.Object}, false},
		{"next:block", step{Dir: session.Forward, Unit: walker.Block}, false},
		{" NEXT:Word ", step{Dir: session.Forward, Unit: walker.Word}, false},
		{"up", step{}, true},
		{"next:page", step{}, true},
		{"select-", step{}, true},
		{"first", step{Jump: true, Dir: session.Backward, Unit: walker.Word}, false},
		{"last:block", step{Jump: true, Dir: session.Forward, Unit: walker.Block}, false},
		{"select-last", step{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStep(tt.in, walker.Word)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseStep(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseStep(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func newTestApp(t *testing.T, doc string) (*app, *session.Session) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	a, err := newApp(&Globals{Config: filepath.Join(dir, "missing.toml")}, &logs)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	sess, err := a.open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return a, sess
}

func TestSpeak(t *testing.T) {
	_, sess := newTestApp(t, "one two three")

	var steps []step
	for _, s := range []string{"next", "select-next", "select-next", "select-prev"} {
		st, err := parseStep(s, walker.Word)
		if err != nil {
			t.Fatal(err)
		}
		steps = append(steps, st)
	}

	var out bytes.Buffer
	if err := speak(context.Background(), sess, steps, narration.EarconStyleNone, &out); err != nil {
		t.Fatalf("speak failed: %v", err)
	}

	want := []string{"one", "one selected", "two selected", "two unselected"}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestReplLoop(t *testing.T) {
	_, sess := newTestApp(t, "alpha beta gamma")

	var out bytes.Buffer
	r := &repl{sess: sess, unit: walker.Word, out: &out}
	r.style.Store(narration.EarconStyleBrackets)

	in := strings.NewReader("selection\nselect-next\n\nbogus\nselect-next\nselection\nquit\nnext\n")
	if err := r.loop(context.Background(), in); err != nil {
		t.Fatalf("loop failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "no selection" {
		t.Errorf("empty selection = %q", lines[0])
	}
	lines = lines[1:]
	if lines[0] != "alpha selected [SELECTION]" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "error: ") {
		t.Errorf("expected parse error, got %q", lines[1])
	}
	if lines[2] != "beta selected [SELECTION]" {
		t.Errorf("line 2 = %q", lines[2])
	}
	if lines[3] != "alpha beta" {
		t.Errorf("selection = %q", lines[3])
	}
}

func TestNewAppOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selnarrate.toml")
	if err := os.WriteFile(path, []byte("locale = \"en\"\nlog_level = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := newApp(&Globals{Config: path, Locale: "es", LogLevel: "debug"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	if a.cfg.Locale != "es" || a.cfg.LogLevel != "debug" {
		t.Errorf("flags not applied: %+v", a.cfg)
	}

	if _, err := newApp(&Globals{Config: path, LogLevel: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected validation error for bad log level")
	}
}

func TestSpeakJump(t *testing.T) {
	_, sess := newTestApp(t, "# Intro\n\nfirst body words")

	var steps []step
	for _, s := range []string{"last", "first:block", "last:block"} {
		st, err := parseStep(s, walker.Word)
		if err != nil {
			t.Fatal(err)
		}
		steps = append(steps, st)
	}

	var out bytes.Buffer
	if err := speak(context.Background(), sess, steps, narration.EarconStyleNone, &out); err != nil {
		t.Fatalf("speak failed: %v", err)
	}

	want := []string{"words", "heading 1 Intro", "first body words"}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestDebugLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("one two"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	a, err := newApp(&Globals{Config: filepath.Join(dir, "missing.toml"), LogLevel: "debug"}, &logs)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	sess, err := a.open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := sess.Select(context.Background(), session.Forward, walker.Word); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	a.logStats()

	out := logs.String()
	for _, want := range []string{
		"2 words, 1 blocks",
		"narration.spoken from session: 1 units",
		"selection.changed from document",
		"1 selections applied, selecting=true",
		"published 2 events",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
