package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldersky/loom/internal/core/pipeline"
	"github.com/aldersky/loom/internal/core/reasoning"
)

// editorDataLoadedMsg carries the result of a load or refetch.
type editorDataLoadedMsg struct {
	data pipeline.EditorData
	err  error
}

// saveDoneMsg carries the result of persisting an edited segment.
type saveDoneMsg struct {
	segmentID int64
	err       error
}

// retranslateDoneMsg carries the result of enqueueing a re-translation.
type retranslateDoneMsg struct {
	err error
}

// reasoningLoadedMsg carries a reasoning lookup result. seq identifies the
// selection generation that requested it; stale results are dropped.
type reasoningLoadedMsg struct {
	batchID int64
	seq     int
	batch   reasoning.Batch
	err     error
}

func (m Model) loadEditorData() tea.Cmd {
	return func() tea.Msg {
		data, err := m.deps.Service.EditorData(context.Background(), m.opts.ChapterID, m.opts.TargetLanguage)
		return editorDataLoadedMsg{data: data, err: err}
	}
}

func (m Model) saveTranslation(segmentID int64, text string) tea.Cmd {
	return func() tea.Msg {
		err := m.deps.Service.UpdateSegmentTranslation(context.Background(), segmentID, text, m.opts.TargetLanguage)
		return saveDoneMsg{segmentID: segmentID, err: err}
	}
}

func (m Model) submitRetranslation(segmentIDs []int64, guidance string) tea.Cmd {
	return func() tea.Msg {
		err := m.deps.Service.RetranslateSegments(context.Background(), segmentIDs, m.opts.TargetLanguage, guidance)
		return retranslateDoneMsg{err: err}
	}
}

func (m Model) fetchReasoning(batchID int64, seq int) tea.Cmd {
	return func() tea.Msg {
		batch, err := m.reasonings.Get(context.Background(), batchID)
		return reasoningLoadedMsg{batchID: batchID, seq: seq, batch: batch, err: err}
	}
}
