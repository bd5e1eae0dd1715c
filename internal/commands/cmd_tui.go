package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/aldersky/loom/internal/data/stores"
	"github.com/aldersky/loom/internal/loom"
	"github.com/aldersky/loom/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *loom.App

	chapterID int64
	language  string
}

// NewTuiCmd creates a new tui command.
func NewTuiCmd(flags *Flags, app *loom.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Flags returns the TUI-specific flags for registration on the root command.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "chapter",
			Usage:       "chapter id to open (defaults to the first chapter)",
			Sources:     cli.EnvVars("LOOM_CHAPTER"),
			Destination: &cmd.chapterID,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "target language to review (defaults to the configured one)",
			Sources:     cli.EnvVars("LOOM_LANG"),
			Destination: &cmd.language,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	chapterID := cmd.chapterID
	if chapterID == 0 {
		chapter, err := cmd.app.Chapters.FirstChapter(ctx)
		if errors.Is(err, stores.ErrNotFound) {
			return fmt.Errorf("no chapters found; run 'loom import' first")
		}
		if err != nil {
			return fmt.Errorf("resolve chapter: %w", err)
		}
		chapterID = chapter.ID
	}

	lang := cmd.language
	if lang == "" {
		lang = cmd.flags.Config.TargetLanguage
	}

	m := tui.New(tui.Deps{
		Config:  cmd.app.Config,
		Service: cmd.app.Pipeline,
	}, tui.Opts{
		ChapterID:      chapterID,
		TargetLanguage: lang,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	log.Debug().Int64("chapter_id", chapterID).Msg("tui exited")
	return nil
}
