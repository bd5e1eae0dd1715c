package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/aldersky/loom/internal/data/stores"
	"github.com/aldersky/loom/internal/loom"
	"github.com/aldersky/loom/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *loom.App

	jsonOutput bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags, app *loom.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List all chapters",
		UsageText: "loom ls [--json]",
		Description: `Displays a table of all chapters with their id, title, and segment counts.

Use --json for machine-readable output with per-status translation counts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// chapterInfo is the JSON output format for loom ls --json.
type chapterInfo struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Segments   int    `json:"segments"`
	Translated int    `json:"translated"`
	Edited     int    `json:"edited"`
	Pending    int    `json:"pending"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	chapters, err := cmd.app.Chapters.ListChapters(ctx)
	if err != nil {
		return fmt.Errorf("list chapters: %w", err)
	}

	if len(chapters) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No chapters found. Run 'loom import' first.\n")
		}
		return nil
	}

	infos := make([]chapterInfo, 0, len(chapters))
	for _, chapter := range chapters {
		info, err := cmd.buildChapterInfo(ctx, chapter)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, infos)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSEGMENTS\tTRANSLATED\tEDITED\tPENDING")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n",
			info.ID, info.Title, info.Segments, info.Translated, info.Edited, info.Pending)
	}
	return w.Flush()
}

func (cmd *LsCmd) buildChapterInfo(ctx context.Context, chapter stores.Chapter) (chapterInfo, error) {
	rows, err := cmd.app.Segments.ListByChapter(ctx, chapter.ID, cmd.flags.Config.TargetLanguage)
	if err != nil {
		return chapterInfo{}, fmt.Errorf("list segments for chapter %d: %w", chapter.ID, err)
	}

	info := chapterInfo{ID: chapter.ID, Title: chapter.Title, Segments: len(rows)}
	for _, row := range rows {
		switch row.Translation.Status {
		case stores.StatusTranslated:
			info.Translated++
		case stores.StatusEdited:
			info.Edited++
		case stores.StatusPending:
			info.Pending++
		}
	}
	return info, nil
}
