package loom

import (
	"context"
	"fmt"
	"strings"

	"github.com/aldersky/loom/internal/data/stores"
)

// ChapterPayload is the JSON interchange format the translation pipeline
// emits per chapter. Translated text and reasoning are optional so the
// same format covers source-only chapters.
type ChapterPayload struct {
	Title          string            `json:"title"`
	TargetLanguage string            `json:"target_language,omitempty"`
	Segments       []SegmentPayload  `json:"segments"`
	Reasoning      *ReasoningPayload `json:"reasoning,omitempty"`
}

// SegmentPayload is one segment of a chapter payload.
type SegmentPayload struct {
	Source         string `json:"source"`
	Translation    string `json:"translation,omitempty"`
	Type           string `json:"type,omitempty"`
	Speaker        string `json:"speaker,omitempty"`
	PrecedingBreak bool   `json:"preceding_break,omitempty"`
}

// ReasoningPayload carries the pipeline's chain-of-thought artifacts for
// the batch that produced the payload's translations.
type ReasoningPayload struct {
	Summary         string            `json:"summary,omitempty"`
	CharacterEvents map[string]string `json:"character_events,omitempty"`
	ReviewFeedback  map[string]string `json:"review_feedback,omitempty"`
}

// Validate checks a payload for the structural problems an import cannot
// recover from.
func (p ChapterPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("payload has no title")
	}
	if len(p.Segments) == 0 {
		return fmt.Errorf("payload %q has no segments", p.Title)
	}
	for i, seg := range p.Segments {
		if seg.Source == "" {
			return fmt.Errorf("payload %q segment %d has empty source", p.Title, i)
		}
		if seg.Translation != "" && p.TargetLanguage == "" {
			return fmt.Errorf("payload %q carries translations but no target_language", p.Title)
		}
	}
	return nil
}

// ImportChapter stores one pipeline payload: the chapter, its segments,
// any translations, and the batch reasoning record the translations link
// to.
func (im *Importer) ImportChapter(ctx context.Context, payload ChapterPayload, seq int) (stores.Chapter, error) {
	if err := payload.Validate(); err != nil {
		return stores.Chapter{}, err
	}

	project, err := im.chapters.DefaultProject(ctx)
	if err != nil {
		return stores.Chapter{}, fmt.Errorf("resolve project: %w", err)
	}

	chapter, err := im.chapters.CreateChapter(ctx, project.ID, payload.Title, seq)
	if err != nil {
		return stores.Chapter{}, err
	}

	segs := make([]stores.SegmentRecord, len(payload.Segments))
	for i, seg := range payload.Segments {
		segType := seg.Type
		if segType == "" {
			segType = classifySegment(seg.Source)
		}
		segs[i] = stores.SegmentRecord{
			SourceText:     seg.Source,
			Type:           segType,
			Speaker:        seg.Speaker,
			PrecedingBreak: seg.PrecedingBreak,
		}
	}
	if err := im.segments.InsertSegments(ctx, chapter.ID, segs); err != nil {
		return stores.Chapter{}, fmt.Errorf("store segments: %w", err)
	}

	rows, err := im.segments.ListByChapter(ctx, chapter.ID, payload.TargetLanguage)
	if err != nil {
		return stores.Chapter{}, fmt.Errorf("reload segments: %w", err)
	}

	var batchID int64
	if payload.Reasoning != nil {
		ids := make([]int64, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		batch, err := im.batches.CreateBatch(ctx, stores.BatchRecord{
			ChapterID:       chapter.ID,
			TargetLanguage:  payload.TargetLanguage,
			Summary:         payload.Reasoning.Summary,
			CharacterEvents: payload.Reasoning.CharacterEvents,
			ReviewFeedback:  payload.Reasoning.ReviewFeedback,
			SegmentIDs:      ids,
		})
		if err != nil {
			return stores.Chapter{}, fmt.Errorf("store batch reasoning: %w", err)
		}
		batchID = batch.ID
	}

	for i, row := range rows {
		translation := payload.Segments[i].Translation
		if translation == "" {
			continue
		}
		err := im.segments.UpsertTranslation(ctx, stores.TranslationRecord{
			SegmentID:      row.ID,
			TargetLanguage: payload.TargetLanguage,
			Text:           translation,
			Status:         stores.StatusTranslated,
			BatchID:        batchID,
		})
		if err != nil {
			return stores.Chapter{}, fmt.Errorf("store translation for segment %d: %w", row.ID, err)
		}
	}

	return chapter, nil
}
