package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/aldersky/loom/internal/loom"
	"github.com/aldersky/loom/internal/printer"
)

type ExportCmd struct {
	flags *Flags
	app   *loom.App

	chapterID int64
	language  string
	output    string
	source    bool
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags, app *loom.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Write a chapter's connected text to a file or stdout",
		UsageText: "loom export --chapter <id> [--lang <code>] [-o out.txt] [--source]",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "chapter",
				Usage:       "chapter id to export",
				Required:    true,
				Destination: &cmd.chapterID,
			},
			&cli.StringFlag{
				Name:        "lang",
				Usage:       "target language (defaults to the configured one)",
				Destination: &cmd.language,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file (stdout when omitted)",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "source",
				Usage:       "export the source text instead of the translation",
				Destination: &cmd.source,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	log := zerolog.Ctx(ctx)
	p := printer.Ctx(ctx)

	lang := cmd.language
	if lang == "" {
		lang = cmd.flags.Config.TargetLanguage
	}

	side := loom.ExportTranslated
	if cmd.source {
		side = loom.ExportSource
	}

	if cmd.output == "" {
		return cmd.app.Pipeline.Export(ctx, c.Root().Writer, cmd.chapterID, lang, side)
	}

	if err := cmd.app.Pipeline.ExportFile(ctx, cmd.output, cmd.chapterID, lang, side); err != nil {
		return fmt.Errorf("export chapter %d: %w", cmd.chapterID, err)
	}

	log.Info().Int64("chapter_id", cmd.chapterID).Str("lang", lang).Str("output", cmd.output).Msg("chapter exported")
	p.Successf("Exported chapter %d to %s", cmd.chapterID, cmd.output)
	return nil
}
