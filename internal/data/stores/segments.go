package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aldersky/loom/internal/data/db"
)

// Translation status values.
const (
	StatusPending    = "pending"
	StatusTranslated = "translated"
	StatusEdited     = "edited"
)

// SegmentRecord is one stored translatable unit. The connected flat texts
// and offset maps the editor consumes are derived from these rows at read
// time by the loom service.
type SegmentRecord struct {
	ID             int64
	ChapterID      int64
	Seq            int
	SourceText     string
	Type           string
	Speaker        string
	PrecedingBreak bool
}

// TranslationRecord is the per-language translation of one segment.
type TranslationRecord struct {
	SegmentID      int64
	TargetLanguage string
	Text           string
	ManuallyEdited bool
	Status         string
	BatchID        int64 // 0 when no batch is recorded
}

// SegmentRow joins a segment with its translation for one language. The
// translation fields are zero values for untranslated segments.
type SegmentRow struct {
	SegmentRecord
	Translation TranslationRecord
}

// SegmentStore persists segments and their translations.
type SegmentStore struct {
	db *db.DB
}

// NewSegmentStore creates a segment store.
func NewSegmentStore(database *db.DB) *SegmentStore {
	return &SegmentStore{db: database}
}

// InsertSegments stores a chapter's segments in one transaction, assigning
// seq from slice order.
func (s *SegmentStore) InsertSegments(ctx context.Context, chapterID int64, segs []SegmentRecord) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO segments (chapter_id, seq, source_text, segment_type, speaker, preceding_break)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare segment insert: %w", err)
		}
		defer stmt.Close() //nolint:errcheck

		for i, seg := range segs {
			if _, err := stmt.ExecContext(ctx, chapterID, i, seg.SourceText, seg.Type, seg.Speaker, boolToInt(seg.PrecedingBreak)); err != nil {
				return fmt.Errorf("insert segment %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListByChapter returns the chapter's segments joined with their
// translations for the given language, in seq order.
func (s *SegmentStore) ListByChapter(ctx context.Context, chapterID int64, targetLanguage string) ([]SegmentRow, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT s.id, s.chapter_id, s.seq, s.source_text, s.segment_type, s.speaker, s.preceding_break,
		        COALESCE(t.translated_text, ''), COALESCE(t.manually_edited, 0),
		        COALESCE(t.status, ?), COALESCE(t.batch_id, 0)
		 FROM segments s
		 LEFT JOIN translations t ON t.segment_id = s.id AND t.target_language = ?
		 WHERE s.chapter_id = ?
		 ORDER BY s.seq, s.id`,
		StatusPending, targetLanguage, chapterID)
	if err != nil {
		return nil, fmt.Errorf("list segments for chapter %d: %w", chapterID, err)
	}
	defer rows.Close() //nolint:errcheck

	var out []SegmentRow
	for rows.Next() {
		var (
			r                SegmentRow
			breakInt, edited int
		)
		err := rows.Scan(&r.ID, &r.ChapterID, &r.Seq, &r.SourceText, &r.Type, &r.Speaker, &breakInt,
			&r.Translation.Text, &edited, &r.Translation.Status, &r.Translation.BatchID)
		if err != nil {
			return nil, fmt.Errorf("scan segment row: %w", err)
		}
		r.PrecedingBreak = breakInt != 0
		r.Translation.SegmentID = r.ID
		r.Translation.TargetLanguage = targetLanguage
		r.Translation.ManuallyEdited = edited != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSegment returns one segment by id.
func (s *SegmentStore) GetSegment(ctx context.Context, id int64) (SegmentRecord, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, chapter_id, seq, source_text, segment_type, speaker, preceding_break
		 FROM segments WHERE id = ?`, id)

	var (
		r        SegmentRecord
		breakInt int
	)
	err := row.Scan(&r.ID, &r.ChapterID, &r.Seq, &r.SourceText, &r.Type, &r.Speaker, &breakInt)
	if IsNotFoundError(err) {
		return SegmentRecord{}, ErrNotFound
	}
	if err != nil {
		return SegmentRecord{}, fmt.Errorf("get segment %d: %w", id, err)
	}
	r.PrecedingBreak = breakInt != 0
	return r, nil
}

// UpsertTranslation writes a segment's translation for a language. Used by
// the import path and pipeline results; manual edits go through
// SetTranslationText.
func (s *SegmentStore) UpsertTranslation(ctx context.Context, t TranslationRecord) error {
	var batchID any
	if t.BatchID != 0 {
		batchID = t.BatchID
	}
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO translations (segment_id, target_language, translated_text, manually_edited, status, batch_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (segment_id, target_language) DO UPDATE SET
		   translated_text = excluded.translated_text,
		   manually_edited = excluded.manually_edited,
		   status = excluded.status,
		   batch_id = excluded.batch_id,
		   updated_at = excluded.updated_at`,
		t.SegmentID, t.TargetLanguage, t.Text, boolToInt(t.ManuallyEdited), t.Status, batchID, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert translation for segment %d: %w", t.SegmentID, err)
	}
	return nil
}

// SetTranslationText overwrites the translated text of one segment and
// marks it manually edited. Returns ErrNotFound when no translation row
// exists for the segment/language pair.
func (s *SegmentStore) SetTranslationText(ctx context.Context, segmentID int64, targetLanguage, text string) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE translations
		 SET translated_text = ?, manually_edited = 1, status = ?, updated_at = ?
		 WHERE segment_id = ? AND target_language = ?`,
		text, StatusEdited, time.Now().UnixNano(), segmentID, targetLanguage)
	if err != nil {
		return fmt.Errorf("update translation for segment %d: %w", segmentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update translation rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPending resets the given segments' translations to pending for a
// language, so the view reflects an in-flight re-translation.
func (s *SegmentStore) MarkPending(ctx context.Context, segmentIDs []int64, targetLanguage string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, id := range segmentIDs {
			if _, err := tx.ExecContext(ctx,
				`UPDATE translations SET status = ?, updated_at = ?
				 WHERE segment_id = ? AND target_language = ?`,
				StatusPending, time.Now().UnixNano(), id, targetLanguage); err != nil {
				return fmt.Errorf("mark segment %d pending: %w", id, err)
			}
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
