package narration

import (
	"strings"
)

// Earcon identifies an audio cue played with a description unit.
type Earcon string

// Earcons used by selection narration.
const (
	EarconSelection        Earcon = "SELECTION"
	EarconSelectionReverse Earcon = "SELECTION_REVERSE"
	EarconWrap             Earcon = "WRAP"
)

// Description is one narration unit.
type Description struct {
	// Context is spoken before Text (for example "heading 2").
	Context string

	// Text is the content being described.
	Text string

	// Annotation is spoken after Text (for example "selected").
	Annotation string

	// Earcons are played in order with this unit.
	Earcons []Earcon
}

// PushEarcon appends an earcon to the unit.
func (d *Description) PushEarcon(e Earcon) {
	d.Earcons = append(d.Earcons, e)
}

// IsEmpty returns true if the unit has nothing to speak or play.
func (d Description) IsEmpty() bool {
	return d.Context == "" && d.Text == "" && d.Annotation == "" && len(d.Earcons) == 0
}

// Speech returns the spoken text of the unit without earcons.
func (d Description) Speech() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{d.Context, d.Text, d.Annotation} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// String returns the unit as speech followed by bracketed earcons.
func (d Description) String() string {
	return render(d, EarconStyleBrackets)
}

// EarconStyle controls how earcons appear in rendered text.
type EarconStyle string

const (
	// EarconStyleBrackets renders earcons as "[NAME]" after the speech.
	EarconStyleBrackets EarconStyle = "brackets"
	// EarconStyleNone omits earcons.
	EarconStyleNone EarconStyle = "none"
)

// Render flattens units into a single line of text, units separated by
// " | ".
func Render(descs []Description, style EarconStyle) string {
	out := make([]string, 0, len(descs))
	for _, d := range descs {
		if d.IsEmpty() {
			continue
		}
		if s := render(d, style); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " | ")
}

func render(d Description, style EarconStyle) string {
	var b strings.Builder
	b.WriteString(d.Speech())
	if style == EarconStyleNone {
		return b.String()
	}
	for _, e := range d.Earcons {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(string(e))
		b.WriteByte(']')
	}
	return b.String()
}
