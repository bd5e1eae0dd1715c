package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/aldersky/loom/internal/core/config"
	"github.com/aldersky/loom/internal/core/geometry"
	"github.com/aldersky/loom/internal/core/notify"
	"github.com/aldersky/loom/internal/core/pipeline"
	"github.com/aldersky/loom/internal/core/reasoning"
	"github.com/aldersky/loom/internal/core/selection"
	"github.com/aldersky/loom/internal/tui/views/editor"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateLoading UIState = iota
	stateNormal
	stateEditing
	stateRetranslating
	stateShowingHelp
	stateError
)

// Deps are the wired collaborators the TUI consumes.
type Deps struct {
	Config  *config.Config
	Service pipeline.Service
}

// Opts configures which chapter and language the editor opens on.
type Opts struct {
	ChapterID      int64
	TargetLanguage string
}

// Model is the main Bubble Tea model for the editor.
type Model struct {
	deps Deps
	opts Opts

	state UIState
	sel   *selection.Controller
	view  editor.View

	editModal    editor.EditModal
	retransModal editor.RetranslateModal

	reasonings *reasoning.Cache
	reasonSeq  int // selection generation; stale lookups are dropped

	toasts    *ToastController
	toastView *ToastView

	keys    KeyMap
	help    help.Model
	spin    spinner.Model
	saving  bool
	errText string

	width  int
	height int
}

// New creates the editor model.
func New(deps Deps, opts Opts) Model {
	sel := selection.New()
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cooldown := time.Duration(deps.Config.TUI.ScrollSyncCooldownMS) * time.Millisecond
	toasts := NewToastController()

	return Model{
		deps:       deps,
		opts:       opts,
		state:      stateLoading,
		sel:        sel,
		view:       editor.New(sel, cooldown, deps.Config.TUI.ReasoningPanelWidth),
		reasonings: reasoning.NewCache(deps.Service.BatchReasoning),
		toasts:     toasts,
		toastView:  NewToastView(toasts),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spin:       sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEditorData(), m.spin.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetSize(msg.Width, m.editorHeight())
		m.help.Width = msg.Width
		return m, nil

	case editorDataLoadedMsg:
		return m.onDataLoaded(msg)

	case saveDoneMsg:
		return m.onSaveDone(msg)

	case retranslateDoneMsg:
		return m.onRetranslateDone(msg)

	case reasoningLoadedMsg:
		return m.onReasoningLoaded(msg)

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case spinner.TickMsg:
		if m.state == stateEditing && m.editModal.Saving() {
			var cmd tea.Cmd
			m.editModal, cmd, _ = m.editModal.Update(msg)
			return m, cmd
		}
		if m.state == stateRetranslating && m.retransModal.Submitting() {
			var cmd tea.Cmd
			m.retransModal, cmd, _ = m.retransModal.Update(msg)
			return m, cmd
		}
		if m.state == stateLoading || m.saving {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		return m.onMouse(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m Model) editorHeight() int {
	h := m.height - 2 // header and status bar rows
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) onDataLoaded(msg editorDataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.state == stateLoading {
			m.state = stateError
			m.errText = msg.err.Error()
			return m, nil
		}
		log.Error().Err(msg.err).Msg("editor data refetch failed")
		return m, m.pushToast(notify.Errorf("Reload failed: %v", msg.err))
	}

	if err := m.view.SetData(msg.data); err != nil {
		// A desynchronized map is unrecoverable for this chapter: render
		// nothing rather than misaligned text.
		m.state = stateError
		m.errText = err.Error()
		log.Error().Err(err).Int64("chapter_id", msg.data.ChapterID).Msg("segment map desynchronized")
		return m, nil
	}

	if m.state == stateLoading {
		m.state = stateNormal
		return m, nil
	}

	// A refetch may carry results of a re-translation, which produces new
	// batches for the same segments.
	m.reasonings.Invalidate()
	return m, m.reasonCmd()
}

func (m Model) onSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		log.Error().Err(msg.err).Int64("segment_id", msg.segmentID).Msg("save failed")
		if m.state == stateEditing {
			m.editModal = m.editModal.Fail(msg.err)
			return m, nil
		}
		return m, m.pushToast(notify.Errorf("Save failed: %v", msg.err))
	}

	if m.state == stateEditing {
		m.state = stateNormal
		m.view.SetToolbarHidden(false)
	}
	return m, tea.Batch(m.loadEditorData(), m.pushToast(notify.Infof("Translation saved")))
}

func (m Model) onRetranslateDone(msg retranslateDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.retransModal = m.retransModal.Fail(msg.err)
		return m, nil
	}

	m.state = stateNormal
	m.view.SetToolbarHidden(false)
	return m, tea.Batch(m.loadEditorData(), m.pushToast(notify.Infof("Re-translation queued")))
}

func (m Model) onReasoningLoaded(msg reasoningLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.reasonSeq {
		return m, nil
	}
	if msg.err != nil {
		m.view.SetReasoning(editor.PanelState{Phase: editor.PanelFailed, Err: msg.err})
		return m, nil
	}
	m.view.SetReasoning(editor.PanelState{Phase: editor.PanelLoaded, Batch: msg.batch})
	return m, nil
}

// reasonCmd starts a lookup for the active segment's batch, bumping the
// generation counter so an earlier in-flight result cannot overwrite this
// selection's panel. Fetching is independent of panel visibility.
func (m *Model) reasonCmd() tea.Cmd {
	m.reasonSeq++

	entry, ok := m.view.Active()
	if !ok || entry.BatchID == 0 {
		m.view.SetReasoning(editor.PanelState{Phase: editor.PanelIdle})
		return nil
	}

	if batch, ok := m.reasonings.Cached(entry.BatchID); ok {
		m.view.SetReasoning(editor.PanelState{Phase: editor.PanelLoaded, Batch: batch})
		return nil
	}

	m.view.SetReasoning(editor.PanelState{Phase: editor.PanelLoading})
	return m.fetchReasoning(entry.BatchID, m.reasonSeq)
}

func (m *Model) pushToast(n notify.Notification) tea.Cmd {
	m.toasts.Push(n)
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.view.ScrollFocused(3)
		return m, nil
	case tea.MouseButtonWheelUp:
		m.view.ScrollFocused(-3)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		// row 0 is the header line
		if m.view.HandleClick(msg.X, msg.Y-1) {
			return m, m.reasonCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateEditing:
		return m.onEditKey(msg)
	case stateRetranslating:
		return m.onRetranslateKey(msg)
	case stateShowingHelp:
		m.state = stateNormal
		return m, nil
	case stateError:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	case stateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.state = stateShowingHelp
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.view.NextSegment()
		return m, m.reasonCmd()

	case key.Matches(msg, m.keys.Prev):
		m.view.PrevSegment()
		return m, m.reasonCmd()

	case key.Matches(msg, m.keys.SwitchPane):
		m.view.SwitchFocus()
		return m, nil

	case key.Matches(msg, m.keys.HalfDown):
		m.view.ScrollFocused(m.editorHeight() / 2)
		return m, nil

	case key.Matches(msg, m.keys.HalfUp):
		m.view.ScrollFocused(-m.editorHeight() / 2)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.openEditModal()

	case key.Matches(msg, m.keys.Retranslate):
		return m.openRetranslateModal()

	case key.Matches(msg, m.keys.Reasoning):
		m.view.TogglePanel()
		m.view.SetSize(m.width, m.editorHeight())
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
		return m, nil
	}

	return m, nil
}

func (m Model) openEditModal() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, m.pushToast(notify.Warnf("Previous save still in flight"))
	}

	entry, ok := m.view.Active()
	if !ok {
		return m, m.pushToast(notify.Infof("Select a segment first"))
	}

	span, _ := m.view.ActiveSpan()
	sourceSpan, _ := m.view.SourceSpan()

	m.editModal = editor.NewEditModal(entry.SegmentID, span.Text, sourceSpan.Text, m.modalWidth())
	m.state = stateEditing
	m.view.SetToolbarHidden(true)
	return m, nil
}

func (m Model) openRetranslateModal() (tea.Model, tea.Cmd) {
	entry, ok := m.view.Active()
	if !ok {
		return m, m.pushToast(notify.Infof("Select a segment first"))
	}

	span, _ := m.view.ActiveSpan()
	sourceSpan, _ := m.view.SourceSpan()

	m.retransModal = editor.NewRetranslateModal(
		[]int64{entry.SegmentID}, sourceSpan.Text, span.Text, m.modalWidth())
	m.state = stateRetranslating
	m.view.SetToolbarHidden(true)
	return m, nil
}

// modalWidth clamps overlay width to the configured bounds and to the
// active segment's rendered width when it is wider than the minimum.
func (m Model) modalWidth() int {
	desired := m.deps.Config.TUI.EditorMinWidth
	if bounds, ok := m.view.ActiveBounds(); ok {
		desired = bounds.Width
	}
	return geometry.ClampWidth(desired,
		m.deps.Config.TUI.EditorMinWidth,
		m.deps.Config.TUI.EditorMaxWidth,
		m.width-2)
}

func (m Model) onEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd, result := m.editModal.Update(msg)
	m.editModal = modal

	switch result {
	case editor.EditCommitted:
		span, _ := m.view.ActiveSpan()
		if modal.Value() == span.Text {
			m.state = stateNormal
			m.view.SetToolbarHidden(false)
			return m, nil
		}

		// The overlay stays up, input locked, until the write lands. On
		// failure it reopens for input so the draft is never lost.
		var beginCmd tea.Cmd
		m.editModal, beginCmd = m.editModal.BeginSave()
		m.saving = true
		return m, tea.Batch(beginCmd, m.saveTranslation(modal.SegmentID, modal.Value()))

	case editor.EditCancelled:
		m.state = stateNormal
		m.view.SetToolbarHidden(false)
		return m, nil
	}

	return m, cmd
}

func (m Model) onRetranslateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd, result := m.retransModal.Update(msg)
	m.retransModal = modal

	switch result {
	case editor.RetranslateSubmitted:
		var beginCmd tea.Cmd
		m.retransModal, beginCmd = m.retransModal.BeginSubmit()
		return m, tea.Batch(beginCmd,
			m.submitRetranslation(m.retransModal.SegmentIDs, m.retransModal.Guidance()))

	case editor.RetranslateCancelled:
		m.state = stateNormal
		m.view.SetToolbarHidden(false)
		return m, nil
	}

	return m, cmd
}
