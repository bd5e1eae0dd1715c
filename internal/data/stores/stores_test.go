package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldersky/loom/internal/data/db"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seedChapter(t *testing.T, database *db.DB, segs []SegmentRecord) Chapter {
	t.Helper()
	ctx := context.Background()

	chapters := NewChapterStore(database)
	project, err := chapters.CreateProject(ctx, "novel", "ja")
	require.NoError(t, err)

	chapter, err := chapters.CreateChapter(ctx, project.ID, "Chapter 1", 0)
	require.NoError(t, err)

	segments := NewSegmentStore(database)
	require.NoError(t, segments.InsertSegments(ctx, chapter.ID, segs))
	return chapter
}

func TestChapterStore_CreateAndList(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	chapter := seedChapter(t, database, nil)

	chapters := NewChapterStore(database)

	got, err := chapters.GetChapter(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1", got.Title)

	list, err := chapters.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	first, err := chapters.FirstChapter(ctx)
	require.NoError(t, err)
	assert.Equal(t, chapter.ID, first.ID)

	_, err = chapters.GetChapter(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChapterStore_DefaultProject(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	chapters := NewChapterStore(database)
	p1, err := chapters.DefaultProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", p1.Name)

	// Idempotent: a second call returns the same project.
	p2, err := chapters.DefaultProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
}

func TestSegmentStore_ListByChapterJoinsTranslations(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	chapter := seedChapter(t, database, []SegmentRecord{
		{SourceText: "一つ目。", Type: "narration"},
		{SourceText: "「二つ目」", Type: "dialogue", Speaker: "Ana", PrecedingBreak: true},
	})

	segments := NewSegmentStore(database)
	rows, err := segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Untranslated segments surface with empty translation and pending status.
	assert.Equal(t, "", rows[0].Translation.Text)
	assert.Equal(t, StatusPending, rows[0].Translation.Status)
	assert.True(t, rows[1].PrecedingBreak)
	assert.Equal(t, "Ana", rows[1].Speaker)

	// Translate the first segment and re-read.
	require.NoError(t, segments.UpsertTranslation(ctx, TranslationRecord{
		SegmentID:      rows[0].ID,
		TargetLanguage: "en",
		Text:           "The first.",
		Status:         StatusTranslated,
	}))

	rows, err = segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "The first.", rows[0].Translation.Text)
	assert.Equal(t, StatusTranslated, rows[0].Translation.Status)

	// A different language still sees no translation.
	deRows, err := segments.ListByChapter(ctx, chapter.ID, "de")
	require.NoError(t, err)
	assert.Equal(t, "", deRows[0].Translation.Text)
}

func TestSegmentStore_SetTranslationText(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	chapter := seedChapter(t, database, []SegmentRecord{{SourceText: "原文。"}})
	segments := NewSegmentStore(database)

	rows, err := segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	segID := rows[0].ID

	// No translation row yet.
	err = segments.SetTranslationText(ctx, segID, "en", "Edited.")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, segments.UpsertTranslation(ctx, TranslationRecord{
		SegmentID: segID, TargetLanguage: "en", Text: "Original.", Status: StatusTranslated,
	}))
	require.NoError(t, segments.SetTranslationText(ctx, segID, "en", "Edited."))

	rows, err = segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "Edited.", rows[0].Translation.Text)
	assert.True(t, rows[0].Translation.ManuallyEdited)
	assert.Equal(t, StatusEdited, rows[0].Translation.Status)
}

func TestSegmentStore_MarkPending(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	chapter := seedChapter(t, database, []SegmentRecord{{SourceText: "a"}, {SourceText: "b"}})
	segments := NewSegmentStore(database)

	rows, err := segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, segments.UpsertTranslation(ctx, TranslationRecord{
			SegmentID: r.ID, TargetLanguage: "en", Text: "t", Status: StatusTranslated,
		}))
	}

	require.NoError(t, segments.MarkPending(ctx, []int64{rows[0].ID}, "en"))

	rows, err = segments.ListByChapter(ctx, chapter.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rows[0].Translation.Status)
	assert.Equal(t, StatusTranslated, rows[1].Translation.Status)
}

func TestBatchStore_RoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	chapter := seedChapter(t, database, []SegmentRecord{{SourceText: "x"}})

	batches := NewBatchStore(database)
	created, err := batches.CreateBatch(ctx, BatchRecord{
		ChapterID:       chapter.ID,
		TargetLanguage:  "en",
		Summary:         "A tense confrontation.",
		CharacterEvents: map[string]string{"Ana": "draws her blade"},
		ReviewFeedback:  map[string]string{"tone": "keep it clipped"},
		SegmentIDs:      []int64{1, 2},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := batches.GetBatch(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A tense confrontation.", got.Summary)
	assert.Equal(t, "draws her blade", got.CharacterEvents["Ana"])
	assert.Equal(t, []int64{1, 2}, got.SegmentIDs)

	_, err = batches.GetBatch(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBatchStore_EnqueueAndListRequests(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	chapter := seedChapter(t, database, []SegmentRecord{{SourceText: "x"}})

	batches := NewBatchStore(database)
	req, err := batches.EnqueueRequest(ctx, RetranslationRequest{
		ChapterID:      chapter.ID,
		TargetLanguage: "en",
		Guidance:       "more formal",
		SegmentIDs:     []int64{7},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, RequestQueued, req.Status)

	pending, err := batches.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "more formal", pending[0].Guidance)
	assert.Equal(t, []int64{7}, pending[0].SegmentIDs)
}
