// Package segment defines the correlation model between a chapter's source
// text and its translated text, and the pure transformations the editor
// renders from: span materialization and paragraph/line reflow.
//
// Offsets are rune offsets, 0-based and half-open [start, end). A segment
// map is immutable for the lifetime of a rendered view; edits replace the
// flat texts and the map together, never patch offsets in place.
package segment

import "fmt"

// Side selects which side of the correlation an operation works on.
type Side int

const (
	SideSource Side = iota
	SideTranslated
)

// String returns the side name used in logs and error messages.
func (s Side) String() string {
	switch s {
	case SideSource:
		return "source"
	case SideTranslated:
		return "translated"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Segment type tags. They affect rendering style only.
const (
	TypeNarration = "narration"
	TypeDialogue  = "dialogue"
)

// Entry correlates one range of the source flat text with one range of the
// translated flat text. Entries appear in narrative order.
type Entry struct {
	SegmentID       int64
	SourceStart     int
	SourceEnd       int
	TranslatedStart int
	TranslatedEnd   int
	Type            string
	Speaker         string
	// BatchID links the segment to the pipeline run that translated it.
	// Zero means no batch is recorded.
	BatchID int64
}

// Range returns the entry's [start, end) offsets for the given side.
func (e Entry) Range(side Side) (start, end int) {
	if side == SideSource {
		return e.SourceStart, e.SourceEnd
	}
	return e.TranslatedStart, e.TranslatedEnd
}

// Map is an ordered list of entries for one chapter/language pair.
type Map []Entry

// Lookup returns the entry with the given segment id.
func (m Map) Lookup(segmentID int64) (Entry, bool) {
	for _, e := range m {
		if e.SegmentID == segmentID {
			return e, true
		}
	}
	return Entry{}, false
}

// IndexOf returns the position of the segment id within the map, or -1.
func (m Map) IndexOf(segmentID int64) int {
	for i, e := range m {
		if e.SegmentID == segmentID {
			return i
		}
	}
	return -1
}

// Validate checks the map's structural invariants: spans are well formed,
// never overlap, and never regress on either side, and segment ids are
// unique. It does not check offsets against any flat text; BuildSpans does
// that per side.
func (m Map) Validate() error {
	seen := make(map[int64]struct{}, len(m))
	for i, e := range m {
		if _, dup := seen[e.SegmentID]; dup {
			return fmt.Errorf("segment map: duplicate segment id %d at index %d", e.SegmentID, i)
		}
		seen[e.SegmentID] = struct{}{}

		for _, side := range []Side{SideSource, SideTranslated} {
			start, end := e.Range(side)
			if start < 0 || start > end {
				return fmt.Errorf("segment map: segment %d has invalid %s range [%d, %d)", e.SegmentID, side, start, end)
			}
			if i > 0 {
				_, prevEnd := m[i-1].Range(side)
				if start < prevEnd {
					return fmt.Errorf("segment map: segment %d overlaps previous entry on %s side (%d < %d)",
						e.SegmentID, side, start, prevEnd)
				}
			}
		}
	}
	return nil
}

// Span is the rendering-time materialization of one entry for one side.
// Spans are derived, never persisted, and are recomputed whenever the flat
// text or segment map changes identity.
type Span struct {
	SegmentID int64
	Text      string
	Start     int
	End       int
	Type      string
	Speaker   string
}

// Empty reports whether the span covers no text. Empty spans are still
// rendered as zero-width but targetable units.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// DesyncError reports segment-map offsets that fall outside the flat text.
// It signals map/text desynchronization and is fatal to rendering the
// chapter: clamping instead would misattribute text to the wrong segment and
// corrupt offset-keyed edits downstream.
type DesyncError struct {
	SegmentID int64
	Side      Side
	Start     int
	End       int
	TextLen   int
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("segment %d: %s range [%d, %d) outside flat text of length %d",
		e.SegmentID, e.Side, e.Start, e.End, e.TextLen)
}

// BuildSpans materializes one renderable span per map entry for the given
// side. It is a pure function of its inputs: identical inputs yield
// structurally identical output, so results may be memoized on
// (flatText, map, side) identity.
//
// A start == end entry yields an empty-text span. Offsets outside the flat
// text return a *DesyncError; the text is never truncated to fit.
func BuildSpans(flatText string, m Map, side Side) ([]Span, error) {
	runes := []rune(flatText)
	spans := make([]Span, 0, len(m))

	for _, e := range m {
		start, end := e.Range(side)
		if start < 0 || start > end || end > len(runes) {
			return nil, &DesyncError{
				SegmentID: e.SegmentID,
				Side:      side,
				Start:     start,
				End:       end,
				TextLen:   len(runes),
			}
		}

		spans = append(spans, Span{
			SegmentID: e.SegmentID,
			Text:      string(runes[start:end]),
			Start:     start,
			End:       end,
			Type:      e.Type,
			Speaker:   e.Speaker,
		})
	}

	return spans, nil
}
