package event

import "strings"

// Topic represents a hierarchical event type using dot notation.
type Topic string

// Wildcard and separator constants for topic patterns.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// Topics published by this module.
const (
	TopicSelectionChanged Topic = "selection.changed"
	TopicSelectionCleared Topic = "selection.cleared"
	TopicNarrationSpoken  Topic = "narration.spoken"
	TopicConfigReloaded   Topic = "config.reloaded"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsPattern returns true if the topic contains a wildcard segment.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// Valid returns true if the topic is non-empty and has no empty segments.
func (t Topic) Valid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches returns true if the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case WildcardMulti:
			rest := pattern[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		case WildcardSingle:
			if len(segs) == 0 {
				return false
			}
		default:
			if len(segs) == 0 || segs[0] != pattern[0] {
				return false
			}
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}
