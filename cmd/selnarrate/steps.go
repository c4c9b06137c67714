package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/session"
)

// step is one navigation command: [select-]next|prev[:unit] or
// first|last[:unit].
type step struct {
	Select bool
	Jump   bool
	Dir    session.Direction
	Unit   walker.Granularity
}

// parseStep parses s. def is used when s names no unit.
func parseStep(s string, def walker.Granularity) (step, error) {
	st := step{Unit: def}

	body := strings.ToLower(strings.TrimSpace(s))
	if rest, ok := strings.CutPrefix(body, "select-"); ok {
		st.Select = true
		body = rest
	}

	dir, unit, hasUnit := strings.Cut(body, ":")
	switch {
	case dir == "first" && !st.Select:
		st.Jump, st.Dir = true, session.Backward
	case dir == "last" && !st.Select:
		st.Jump, st.Dir = true, session.Forward
	default:
		d, err := session.ParseDirection(dir)
		if err != nil {
			return step{}, fmt.Errorf("step %q: %w", s, err)
		}
		st.Dir = d
	}

	if hasUnit {
		g, err := walker.ParseGranularity(unit)
		if err != nil {
			return step{}, fmt.Errorf("step %q: %w", s, err)
		}
		st.Unit = g
	}
	return st, nil
}

// apply runs st against sess.
func (st step) apply(ctx context.Context, sess *session.Session) ([]narration.Description, error) {
	switch {
	case st.Jump:
		return sess.Jump(ctx, st.Dir, st.Unit)
	case st.Select:
		return sess.Select(ctx, st.Dir, st.Unit)
	}
	return sess.Move(ctx, st.Dir, st.Unit)
}

func (st step) String() string {
	if st.Jump {
		edge := "last"
		if st.Dir == session.Backward {
			edge = "first"
		}
		return fmt.Sprintf("%s:%s", edge, st.Unit)
	}
	prefix := ""
	if st.Select {
		prefix = "select-"
	}
	return fmt.Sprintf("%s%s:%s", prefix, st.Dir, st.Unit)
}
