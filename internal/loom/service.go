// Package loom implements the pipeline collaborator interface over the
// local project database. The editor consumes it exclusively through
// pipeline.Service; the external translation pipeline shares the same
// database and consumes the retranslation request queue.
package loom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aldersky/loom/internal/core/pipeline"
	"github.com/aldersky/loom/internal/core/reasoning"
	"github.com/aldersky/loom/internal/core/segment"
	"github.com/aldersky/loom/internal/data/stores"
)

// Service implements pipeline.Service against the SQLite stores.
type Service struct {
	chapters *stores.ChapterStore
	segments *stores.SegmentStore
	batches  *stores.BatchStore
	log      zerolog.Logger
}

var _ pipeline.Service = (*Service)(nil)

// NewService wires a service over the given stores.
func NewService(chapters *stores.ChapterStore, segments *stores.SegmentStore, batches *stores.BatchStore, log zerolog.Logger) *Service {
	return &Service{
		chapters: chapters,
		segments: segments,
		batches:  batches,
		log:      log,
	}
}

// EditorData builds the connected flat texts and the segment map for one
// chapter/language pair. Segment texts are joined with "\n", or "\n\n"
// where the segmenter recorded a preceding paragraph break; offsets count
// runes. Untranslated segments contribute empty translated spans so they
// stay targetable in the editor.
func (s *Service) EditorData(ctx context.Context, chapterID int64, targetLanguage string) (pipeline.EditorData, error) {
	chapter, err := s.chapters.GetChapter(ctx, chapterID)
	if errors.Is(err, stores.ErrNotFound) {
		return pipeline.EditorData{}, pipeline.ErrChapterNotFound
	}
	if err != nil {
		return pipeline.EditorData{}, fmt.Errorf("load chapter: %w", err)
	}

	rows, err := s.segments.ListByChapter(ctx, chapterID, targetLanguage)
	if err != nil {
		return pipeline.EditorData{}, fmt.Errorf("load segments: %w", err)
	}

	var (
		sourceParts, translatedParts []string
		m                            segment.Map
		sourceOffset, translatedOff  int
	)

	for i, row := range rows {
		sep := "\n"
		if row.PrecedingBreak {
			sep = "\n\n"
		}

		if i > 0 {
			sourceParts = append(sourceParts, sep)
			sourceOffset += len([]rune(sep))
		}

		translated := row.Translation.Text
		if len(translatedParts) > 0 && translated != "" {
			translatedParts = append(translatedParts, sep)
			translatedOff += len([]rune(sep))
		}

		sourceLen := len([]rune(row.SourceText))
		translatedLen := len([]rune(translated))

		m = append(m, segment.Entry{
			SegmentID:       row.ID,
			SourceStart:     sourceOffset,
			SourceEnd:       sourceOffset + sourceLen,
			TranslatedStart: translatedOff,
			TranslatedEnd:   translatedOff + translatedLen,
			Type:            row.Type,
			Speaker:         row.Speaker,
			BatchID:         row.Translation.BatchID,
		})

		sourceParts = append(sourceParts, row.SourceText)
		sourceOffset += sourceLen
		if translated != "" {
			translatedParts = append(translatedParts, translated)
			translatedOff += translatedLen
		}
	}

	data := pipeline.EditorData{
		ChapterID:      chapterID,
		TargetLanguage: targetLanguage,
		ChapterTitle:   chapter.Title,
		SourceText:     strings.Join(sourceParts, ""),
		TranslatedText: strings.Join(translatedParts, ""),
		Map:            m,
	}

	if err := data.Map.Validate(); err != nil {
		return pipeline.EditorData{}, fmt.Errorf("derived segment map invalid: %w", err)
	}

	s.log.Debug().
		Int64("chapter_id", chapterID).
		Str("lang", targetLanguage).
		Int("segments", len(m)).
		Msg("built editor data")

	return data, nil
}

// UpdateSegmentTranslation persists a manual edit of one segment's
// translated text. Returns pipeline.ErrTranslationNotFound when the segment
// does not exist, so there is no translation to attach the edit to.
func (s *Service) UpdateSegmentTranslation(ctx context.Context, segmentID int64, newText, targetLanguage string) error {
	err := s.segments.SetTranslationText(ctx, segmentID, targetLanguage, newText)
	if errors.Is(err, stores.ErrNotFound) {
		if _, gerr := s.segments.GetSegment(ctx, segmentID); gerr != nil {
			if errors.Is(gerr, stores.ErrNotFound) {
				gerr = pipeline.ErrTranslationNotFound
			}
			return fmt.Errorf("update translation for segment %d: %w", segmentID, gerr)
		}

		// First manual translation of a never-translated segment.
		err = s.segments.UpsertTranslation(ctx, stores.TranslationRecord{
			SegmentID:      segmentID,
			TargetLanguage: targetLanguage,
			Text:           newText,
			ManuallyEdited: true,
			Status:         stores.StatusEdited,
		})
	}
	if err != nil {
		return fmt.Errorf("update translation for segment %d: %w", segmentID, err)
	}

	s.log.Info().Int64("segment_id", segmentID).Str("lang", targetLanguage).Msg("segment translation updated")
	return nil
}

// RetranslateSegments validates and enqueues a guided re-translation
// request, marking the affected translations pending. The pipeline picks
// the request up out of process; the editor observes the result through a
// later EditorData refetch.
func (s *Service) RetranslateSegments(ctx context.Context, segmentIDs []int64, targetLanguage, guidance string) error {
	if len(segmentIDs) == 0 {
		return pipeline.ErrNoSegments
	}
	if strings.TrimSpace(guidance) == "" {
		return pipeline.ErrEmptyGuidance
	}

	seg, err := s.segments.GetSegment(ctx, segmentIDs[0])
	if errors.Is(err, stores.ErrNotFound) {
		return fmt.Errorf("segment %d: %w", segmentIDs[0], stores.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load segment: %w", err)
	}

	req, err := s.batches.EnqueueRequest(ctx, stores.RetranslationRequest{
		ChapterID:      seg.ChapterID,
		TargetLanguage: targetLanguage,
		Guidance:       guidance,
		SegmentIDs:     segmentIDs,
	})
	if err != nil {
		return fmt.Errorf("enqueue retranslation: %w", err)
	}

	if err := s.segments.MarkPending(ctx, segmentIDs, targetLanguage); err != nil {
		return fmt.Errorf("mark segments pending: %w", err)
	}

	s.log.Info().
		Str("request_id", req.ID).
		Ints64("segment_ids", segmentIDs).
		Str("lang", targetLanguage).
		Msg("retranslation request enqueued")
	return nil
}

// BatchReasoning loads a batch's chain-of-thought record. A missing batch
// is Found=false, not an error.
func (s *Service) BatchReasoning(ctx context.Context, batchID int64) (reasoning.Batch, error) {
	rec, err := s.batches.GetBatch(ctx, batchID)
	if errors.Is(err, stores.ErrNotFound) {
		return reasoning.Batch{Found: false, BatchID: batchID}, nil
	}
	if err != nil {
		return reasoning.Batch{}, fmt.Errorf("load batch %d: %w", batchID, err)
	}

	return reasoning.Batch{
		Found:           true,
		BatchID:         batchID,
		Summary:         rec.Summary,
		CharacterEvents: rec.CharacterEvents,
		ReviewFeedback:  rec.ReviewFeedback,
	}, nil
}
