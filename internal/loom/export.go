package loom

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExportSide selects which flat text an export writes.
type ExportSide string

const (
	ExportTranslated ExportSide = "translated"
	ExportSource     ExportSide = "source"
)

// Export writes a chapter's connected text to w, trailing newline
// included.
func (s *Service) Export(ctx context.Context, w io.Writer, chapterID int64, targetLanguage string, side ExportSide) error {
	data, err := s.EditorData(ctx, chapterID, targetLanguage)
	if err != nil {
		return err
	}

	text := data.TranslatedText
	if side == ExportSource {
		text = data.SourceText
	}

	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if text != "" && text[len(text)-1] != '\n' {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}
	return nil
}

// ExportFile writes a chapter's connected text to the named file,
// creating or truncating it.
func (s *Service) ExportFile(ctx context.Context, path string, chapterID int64, targetLanguage string, side ExportSide) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := s.Export(ctx, f, chapterID, targetLanguage, side); err != nil {
		return err
	}
	return f.Close()
}
