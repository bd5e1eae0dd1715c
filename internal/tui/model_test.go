package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldersky/loom/internal/core/config"
	"github.com/aldersky/loom/internal/core/pipeline"
	"github.com/aldersky/loom/internal/core/reasoning"
	"github.com/aldersky/loom/internal/core/segment"
	"github.com/aldersky/loom/pkg/tuitest"
)

type savedEdit struct {
	segmentID int64
	text      string
}

type fakeService struct {
	data       pipeline.EditorData
	loadErr    error
	saveErr    error
	retransErr error

	saved    []savedEdit
	requests [][]int64
	batches  map[int64]reasoning.Batch
	fetches  int
}

func (f *fakeService) EditorData(_ context.Context, _ int64, _ string) (pipeline.EditorData, error) {
	return f.data, f.loadErr
}

func (f *fakeService) UpdateSegmentTranslation(_ context.Context, segmentID int64, newText, _ string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, savedEdit{segmentID: segmentID, text: newText})
	return nil
}

func (f *fakeService) RetranslateSegments(_ context.Context, segmentIDs []int64, _, guidance string) error {
	if f.retransErr != nil {
		return f.retransErr
	}
	f.requests = append(f.requests, segmentIDs)
	return nil
}

func (f *fakeService) BatchReasoning(_ context.Context, batchID int64) (reasoning.Batch, error) {
	f.fetches++
	if b, ok := f.batches[batchID]; ok {
		return b, nil
	}
	return reasoning.Batch{Found: false, BatchID: batchID}, nil
}

func testData() pipeline.EditorData {
	return pipeline.EditorData{
		ChapterID:      1,
		TargetLanguage: "en",
		ChapterTitle:   "Chapter 1",
		SourceText:     "Erster Satz.\nZweiter Satz.",
		TranslatedText: "First sentence.\nSecond sentence.",
		Map: segment.Map{
			{SegmentID: 10, SourceStart: 0, SourceEnd: 12, TranslatedStart: 0, TranslatedEnd: 15, Type: segment.TypeNarration, BatchID: 7},
			{SegmentID: 11, SourceStart: 13, SourceEnd: 26, TranslatedStart: 16, TranslatedEnd: 32, Type: segment.TypeNarration},
		},
	}
}

func testModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	m := New(Deps{Config: &cfg, Service: svc}, Opts{ChapterID: 1, TargetLanguage: "en"})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(editorDataLoadedMsg{data: svc.data})
	return next.(Model)
}

// drive runs one Update and returns the model plus the message produced by
// the returned command, if any.
func drive(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "alt+enter":
		return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_LoadTransitionsToNormal(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	assert.Equal(t, stateNormal, m.state)
	assert.Contains(t, m.View(), "First sentence.")
	assert.Contains(t, m.View(), "Erster Satz.")
}

func TestModel_LoadErrorShowsErrorState(t *testing.T) {
	svc := &fakeService{loadErr: errors.New("database locked")}
	cfg := config.DefaultConfig()
	m := New(Deps{Config: &cfg, Service: svc}, Opts{ChapterID: 1, TargetLanguage: "en"})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(editorDataLoadedMsg{err: errors.New("database locked")})

	model := next.(Model)
	assert.Equal(t, stateError, model.state)
	assert.Contains(t, model.View(), "database locked")
}

func TestModel_DesyncedMapIsFatalForChapter(t *testing.T) {
	data := testData()
	data.Map[1].TranslatedEnd = 999
	svc := &fakeService{data: data}

	cfg := config.DefaultConfig()
	m := New(Deps{Config: &cfg, Service: svc}, Opts{ChapterID: 1, TargetLanguage: "en"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(editorDataLoadedMsg{data: data})

	assert.Equal(t, stateError, next.(Model).state)
}

func TestModel_NavigationSelectsSegments(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	entry, ok := m.view.Active()
	require.True(t, ok)
	assert.Equal(t, int64(10), entry.SegmentID)

	m, _ = drive(t, m, keyMsg("j"))
	entry, _ = m.view.Active()
	assert.Equal(t, int64(11), entry.SegmentID)

	// already at the last segment; stepping further is a no-op
	m, _ = drive(t, m, keyMsg("j"))
	entry, _ = m.view.Active()
	assert.Equal(t, int64(11), entry.SegmentID)

	m, _ = drive(t, m, keyMsg("k"))
	entry, _ = m.view.Active()
	assert.Equal(t, int64(10), entry.SegmentID)
}

func TestModel_EditCommitSavesAndReloads(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("e"))
	assert.Equal(t, stateEditing, m.state)

	// type a character, then commit with alt+enter; the overlay stays up
	// with locked input until the write lands
	m, _ = drive(t, m, keyMsg("x"))
	m, saveMsg := drive(t, m, keyMsg("alt+enter"))
	assert.Equal(t, stateEditing, m.state)
	assert.True(t, m.saving)
	assert.True(t, m.editModal.Saving())

	// the batched command carries the save; find the saveDoneMsg
	done := findMsg[saveDoneMsg](t, saveMsg)
	require.NoError(t, done.err)
	require.Len(t, svc.saved, 1)
	assert.Equal(t, int64(10), svc.saved[0].segmentID)

	m, _ = drive(t, m, done)
	assert.Equal(t, stateNormal, m.state)
	assert.False(t, m.saving)
}

func TestModel_SaveFailureKeepsDraft(t *testing.T) {
	svc := &fakeService{data: testData(), saveErr: errors.New("disk full")}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("e"))
	m, _ = drive(t, m, keyMsg("x"))
	draft := m.editModal.Value()

	m, saveMsg := drive(t, m, keyMsg("alt+enter"))
	done := findMsg[saveDoneMsg](t, saveMsg)
	require.Error(t, done.err)

	// the overlay reopens for input with the draft intact
	m, _ = drive(t, m, done)
	assert.Equal(t, stateEditing, m.state)
	assert.False(t, m.editModal.Saving())
	assert.Equal(t, draft, m.editModal.Value())
	assert.Contains(t, tuitest.StripANSI(m.View()), "disk full")

	// editable again: the user can amend and retry
	m, _ = drive(t, m, keyMsg("y"))
	assert.Equal(t, draft+"y", m.editModal.Value())

	// or discard deliberately
	m, _ = drive(t, m, keyMsg("esc"))
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_EditEscapeDiscards(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("e"))
	m, _ = drive(t, m, keyMsg("x"))
	m, _ = drive(t, m, keyMsg("esc"))

	assert.Equal(t, stateNormal, m.state)
	assert.Empty(t, svc.saved)
}

func TestModel_UnchangedCommitSkipsSave(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("e"))
	m, msg := drive(t, m, keyMsg("alt+enter"))

	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, msg)
	assert.Empty(t, svc.saved)
}

func TestModel_RetranslateFailureKeepsGuidance(t *testing.T) {
	svc := &fakeService{data: testData(), retransErr: errors.New("queue full")}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("r"))
	assert.Equal(t, stateRetranslating, m.state)

	m, _ = drive(t, m, keyMsg("m"))
	m, batchMsg := drive(t, m, keyMsg("alt+enter"))

	done := findMsg[retranslateDoneMsg](t, batchMsg)
	require.Error(t, done.err)

	m, _ = drive(t, m, done)
	assert.Equal(t, stateRetranslating, m.state)
	assert.Equal(t, "m", m.retransModal.Guidance())
	assert.False(t, m.retransModal.Submitting())
}

func TestModel_RetranslateSuccessQueuesAndReloads(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("r"))
	m, _ = drive(t, m, keyMsg("m"))
	m, batchMsg := drive(t, m, keyMsg("alt+enter"))

	done := findMsg[retranslateDoneMsg](t, batchMsg)
	require.NoError(t, done.err)
	require.Len(t, svc.requests, 1)
	assert.Equal(t, []int64{10}, svc.requests[0])

	m, _ = drive(t, m, done)
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_ReasoningFetchedOnSelection(t *testing.T) {
	svc := &fakeService{
		data: testData(),
		batches: map[int64]reasoning.Batch{
			7: {Found: true, BatchID: 7, Summary: "A quiet opening."},
		},
	}
	m := testModel(t, svc)

	// segment 10 carries batch 7; selecting it fetches reasoning even
	// though the panel is closed
	m, msg := drive(t, m, keyMsg("j"))
	loaded := findMsg[reasoningLoadedMsg](t, msg)
	assert.Equal(t, int64(7), loaded.batchID)
	assert.Equal(t, "A quiet opening.", loaded.batch.Summary)
	assert.Equal(t, 1, svc.fetches)

	m, _ = drive(t, m, loaded)

	// second selection of the same batch hits the cache
	m, _ = drive(t, m, keyMsg("k"))
	assert.Equal(t, 1, svc.fetches)
	_ = m
}

func TestModel_StaleReasoningResultDropped(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("j"))
	stale := reasoningLoadedMsg{batchID: 7, seq: m.reasonSeq - 1, batch: reasoning.Batch{Found: true}}

	next, cmd := m.Update(stale)
	assert.Nil(t, cmd)
	_ = next
}

func TestModel_HelpToggles(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)

	m, _ = drive(t, m, keyMsg("?"))
	assert.Equal(t, stateShowingHelp, m.state)

	m, _ = drive(t, m, keyMsg("j"))
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_ViewChrome(t *testing.T) {
	svc := &fakeService{data: testData()}
	m := testModel(t, svc)
	m, _ = drive(t, m, keyMsg("j"))

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "loom")
	assert.Contains(t, view, "Chapter 1 → en")
	assert.Contains(t, view, "segment 1/2")

	m, _ = drive(t, m, keyMsg("e"))
	view = tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Edit translation")
	assert.Contains(t, view, "Erster Satz.")
}

// findMsg unwraps a possibly batched command result to the typed message.
func findMsg[T tea.Msg](t *testing.T, msg tea.Msg) T {
	t.Helper()

	if typed, ok := msg.(T); ok {
		return typed
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd == nil {
				continue
			}
			if typed, ok := cmd().(T); ok {
				return typed
			}
		}
	}

	var zero T
	t.Fatalf("message of type %T not found in %#v", zero, msg)
	return zero
}
