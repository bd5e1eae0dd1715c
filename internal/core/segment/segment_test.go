package segment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMap builds a two-sided map over these flat texts:
//
//	source:     "Hello.\nWorld!\n\nBye."
//	translated: "Hallo.\n\nWelt!Tschüss."
func testTexts() (string, string, Map) {
	source := "Hello.\nWorld!\n\nBye."
	translated := "Hallo.\n\nWelt!Tschüss."
	m := Map{
		{SegmentID: 1, SourceStart: 0, SourceEnd: 6, TranslatedStart: 0, TranslatedEnd: 6, Type: TypeNarration},
		{SegmentID: 2, SourceStart: 7, SourceEnd: 13, TranslatedStart: 8, TranslatedEnd: 13, Type: TypeDialogue, Speaker: "Ana"},
		{SegmentID: 3, SourceStart: 15, SourceEnd: 19, TranslatedStart: 13, TranslatedEnd: 21, Type: TypeNarration, BatchID: 42},
	}
	return source, translated, m
}

func TestBuildSpans_SourceSide(t *testing.T) {
	source, _, m := testTexts()

	spans, err := BuildSpans(source, m, SideSource)
	require.NoError(t, err)
	require.Len(t, spans, 3)

	assert.Equal(t, "Hello.", spans[0].Text)
	assert.Equal(t, "World!", spans[1].Text)
	assert.Equal(t, "Bye.", spans[2].Text)
	assert.Equal(t, "Ana", spans[1].Speaker)
}

func TestBuildSpans_TranslatedSideUsesRuneOffsets(t *testing.T) {
	_, translated, m := testTexts()

	spans, err := BuildSpans(translated, m, SideTranslated)
	require.NoError(t, err)

	// "Tschüss." contains a multi-byte rune; offsets must count runes.
	assert.Equal(t, "Tschüss.", spans[2].Text)
}

func TestBuildSpans_PartitionOrdered(t *testing.T) {
	source, translated, m := testTexts()

	for side, text := range map[Side]string{SideSource: source, SideTranslated: translated} {
		spans, err := BuildSpans(text, m, side)
		require.NoError(t, err)

		for i := 1; i < len(spans); i++ {
			assert.LessOrEqual(t, spans[i-1].End, spans[i].Start,
				"spans must not overlap or regress on %s side", side)
		}
	}
}

func TestBuildSpans_RoundTrip(t *testing.T) {
	// Concatenating span texts with the original gap substrings reproduces
	// the flat text exactly.
	source, translated, m := testTexts()

	for side, text := range map[Side]string{SideSource: source, SideTranslated: translated} {
		spans, err := BuildSpans(text, m, side)
		require.NoError(t, err)

		flat := []rune(text)
		rebuilt := string(flat[:spans[0].Start])
		for i, sp := range spans {
			if i > 0 {
				rebuilt += GapText(flat, spans[i-1], sp)
			}
			rebuilt += sp.Text
		}
		rebuilt += string(flat[spans[len(spans)-1].End:])

		assert.Equal(t, text, rebuilt, "round-trip on %s side", side)
	}
}

func TestBuildSpans_Idempotent(t *testing.T) {
	source, _, m := testTexts()

	a, err := BuildSpans(source, m, SideSource)
	require.NoError(t, err)
	b, err := BuildSpans(source, m, SideSource)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildSpans_EmptySegment(t *testing.T) {
	m := Map{
		{SegmentID: 1, SourceStart: 0, SourceEnd: 5, TranslatedStart: 0, TranslatedEnd: 0},
	}

	spans, err := BuildSpans("", m, SideTranslated)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Empty())
	assert.Equal(t, "", spans[0].Text)
}

func TestBuildSpans_OutOfBounds(t *testing.T) {
	m := Map{
		{SegmentID: 7, SourceStart: 0, SourceEnd: 99, TranslatedStart: 0, TranslatedEnd: 0},
	}

	_, err := BuildSpans("short", m, SideSource)
	require.Error(t, err)

	var desync *DesyncError
	require.True(t, errors.As(err, &desync))
	assert.Equal(t, int64(7), desync.SegmentID)
	assert.Equal(t, SideSource, desync.Side)
	assert.Equal(t, 99, desync.End)
	assert.Equal(t, 5, desync.TextLen)
}

func TestBuildSpans_StartAfterEnd(t *testing.T) {
	m := Map{
		{SegmentID: 1, SourceStart: 4, SourceEnd: 2, TranslatedStart: 0, TranslatedEnd: 0},
	}

	_, err := BuildSpans("abcdef", m, SideSource)
	var desync *DesyncError
	require.True(t, errors.As(err, &desync))
}

func TestMapValidate(t *testing.T) {
	_, _, m := testTexts()
	require.NoError(t, m.Validate())

	dup := append(Map{}, m...)
	dup = append(dup, Entry{SegmentID: 1, SourceStart: 30, SourceEnd: 31})
	assert.Error(t, dup.Validate())

	overlap := Map{
		{SegmentID: 1, SourceStart: 0, SourceEnd: 10, TranslatedStart: 0, TranslatedEnd: 5},
		{SegmentID: 2, SourceStart: 5, SourceEnd: 12, TranslatedStart: 5, TranslatedEnd: 9},
	}
	assert.Error(t, overlap.Validate())
}

func TestMapLookup(t *testing.T) {
	_, _, m := testTexts()

	e, ok := m.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, int64(42), e.BatchID)

	_, ok = m.Lookup(999)
	assert.False(t, ok)

	assert.Equal(t, 1, m.IndexOf(2))
	assert.Equal(t, -1, m.IndexOf(999))
}
