package loom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aldersky/loom/internal/core/segment"
	"github.com/aldersky/loom/internal/data/stores"
)

// Importer creates chapters from plain-text files using rule-based
// segmentation. It is the manual on-ramp; the real pipeline's segmenter
// produces finer-grained units.
type Importer struct {
	chapters *stores.ChapterStore
	segments *stores.SegmentStore
	batches  *stores.BatchStore
}

// NewImporter creates an importer over the given stores.
func NewImporter(chapters *stores.ChapterStore, segments *stores.SegmentStore, batches *stores.BatchStore) *Importer {
	return &Importer{chapters: chapters, segments: segments, batches: batches}
}

// ImportFile reads one text file and stores it as a chapter titled after
// the file name.
func (im *Importer) ImportFile(ctx context.Context, path string, seq int) (stores.Chapter, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stores.Chapter{}, 0, fmt.Errorf("read chapter file: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	project, err := im.chapters.DefaultProject(ctx)
	if err != nil {
		return stores.Chapter{}, 0, fmt.Errorf("resolve project: %w", err)
	}

	chapter, err := im.chapters.CreateChapter(ctx, project.ID, title, seq)
	if err != nil {
		return stores.Chapter{}, 0, err
	}

	segs := SegmentText(string(data))
	if err := im.segments.InsertSegments(ctx, chapter.ID, segs); err != nil {
		return stores.Chapter{}, 0, fmt.Errorf("store segments: %w", err)
	}

	return chapter, len(segs), nil
}

// SegmentText splits source text into segments. Paragraphs are separated
// by blank lines; within a paragraph, each dialogue line becomes its own
// segment and consecutive narration lines stay together, joined by soft
// breaks. Only the first segment of a paragraph records a preceding
// paragraph break (and never the very first segment of the text).
func SegmentText(text string) []stores.SegmentRecord {
	var segs []stores.SegmentRecord

	for pi, para := range splitParagraphs(text) {
		for ui, unit := range splitUnits(para) {
			segs = append(segs, stores.SegmentRecord{
				SourceText:     unit,
				Type:           classifySegment(unit),
				PrecedingBreak: pi > 0 && ui == 0,
			})
		}
	}

	return segs
}

// splitParagraphs splits text on blank (empty or whitespace-only) lines,
// preserving single newlines inside each paragraph.
func splitParagraphs(text string) []string {
	var (
		paras   []string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// splitUnits breaks one paragraph into segments: every dialogue line is a
// unit of its own; runs of narration lines form one unit.
func splitUnits(para string) []string {
	var (
		units   []string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			units = append(units, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(para, "\n") {
		if isDialogueLine(line) {
			flush()
			units = append(units, line)
			continue
		}
		current = append(current, line)
	}
	flush()

	return units
}

// isDialogueLine reports whether a line opens with a common quotation
// mark.
func isDialogueLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{`"`, "“", "„", "「", "『", "«", "—"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// classifySegment tags a segment for rendering style only.
func classifySegment(unit string) string {
	if isDialogueLine(unit) {
		return segment.TypeDialogue
	}
	return segment.TypeNarration
}
