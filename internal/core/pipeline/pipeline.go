// Package pipeline declares the operations the editor consumes from the
// translation/storage collaborator. The editor is transport-agnostic: only
// these request and response shapes are contractual. The local SQLite
// implementation lives in internal/loom.
package pipeline

import (
	"context"
	"errors"

	"github.com/aldersky/loom/internal/core/reasoning"
	"github.com/aldersky/loom/internal/core/segment"
)

// Sentinel errors shared by implementations.
var (
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrTranslationNotFound = errors.New("translation not found")
	ErrNoSegments          = errors.New("no segment ids provided")
	ErrEmptyGuidance       = errors.New("guidance text is empty")
)

// EditorData is the sole source of flat texts and the segment map for one
// chapter/language pair. It must be refetched after any mutating operation;
// derived spans and scroll proportions are invalid once either text changes.
type EditorData struct {
	ChapterID      int64
	TargetLanguage string
	ChapterTitle   string
	SourceText     string
	TranslatedText string
	Map            segment.Map
}

// Service is the collaborator interface. All calls are issued from
// asynchronous Bubble Tea commands; implementations must be safe for that
// and honor ctx cancellation on anything blocking.
type Service interface {
	// EditorData loads the connected texts and segment map.
	EditorData(ctx context.Context, chapterID int64, targetLanguage string) (EditorData, error)

	// UpdateSegmentTranslation persists an edited segment's translated
	// text. Offsets are derived state; callers refetch EditorData instead
	// of patching the map. An unknown segment yields
	// ErrTranslationNotFound.
	UpdateSegmentTranslation(ctx context.Context, segmentID int64, newText, targetLanguage string) error

	// RetranslateSegments requests guided re-translation of one or more
	// segments. The result is observed via a later EditorData refetch,
	// not a direct payload.
	RetranslateSegments(ctx context.Context, segmentIDs []int64, targetLanguage, guidance string) error

	// BatchReasoning returns the chain-of-thought record for a batch.
	// A missing batch yields Found=false, not an error.
	BatchReasoning(ctx context.Context, batchID int64) (reasoning.Batch, error)
}
