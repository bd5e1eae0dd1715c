package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/aldersky/loom/internal/loom"
	"github.com/aldersky/loom/internal/printer"
	"github.com/aldersky/loom/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags
	app   *loom.App

	jsonReader iojson.FileReader[loom.ChapterPayload]
}

// NewImportCmd creates a new import command.
func NewImportCmd(flags *Flags, app *loom.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application.
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := cmd.jsonReader.Flag("json", "path to a pipeline chapter payload (JSON) instead of text files")

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import chapters from text files or a pipeline payload",
		UsageText: "loom import <glob>... | loom import --json chapter.json",
		Description: `Imports source text as chapters.

Plain-text arguments are glob patterns (doublestar syntax, e.g. 'chapters/**/*.txt');
each matched file becomes one chapter segmented on paragraph and dialogue
boundaries. With --json, a single pipeline payload is imported instead,
including translations and batch reasoning when present.`,
		Flags:  []cli.Flag{jsonFlag},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	log := zerolog.Ctx(ctx)
	p := printer.Ctx(ctx)

	if c.String("json") != "" {
		payload, err := cmd.jsonReader.Read()
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		seq, err := cmd.nextSeq(ctx)
		if err != nil {
			return err
		}

		chapter, err := cmd.app.Importer.ImportChapter(ctx, payload, seq)
		if err != nil {
			return fmt.Errorf("import payload: %w", err)
		}

		log.Info().Int64("chapter_id", chapter.ID).Str("title", chapter.Title).Msg("payload imported")
		p.Successf("Imported chapter %q (%d segments)", chapter.Title, len(payload.Segments))
		return nil
	}

	if c.Args().Len() == 0 {
		return fmt.Errorf("no input: pass glob patterns or --json")
	}

	paths, err := expandGlobs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched")
	}

	seq, err := cmd.nextSeq(ctx)
	if err != nil {
		return err
	}

	for _, path := range paths {
		chapter, count, err := cmd.app.Importer.ImportFile(ctx, path, seq)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		seq++

		log.Info().Int64("chapter_id", chapter.ID).Str("path", path).Int("segments", count).Msg("chapter imported")
		p.Successf("Imported %q (%d segments)", chapter.Title, count)
	}

	return nil
}

func (cmd *ImportCmd) nextSeq(ctx context.Context) (int, error) {
	chapters, err := cmd.app.Chapters.ListChapters(ctx)
	if err != nil {
		return 0, fmt.Errorf("list chapters: %w", err)
	}
	return len(chapters), nil
}

// expandGlobs resolves doublestar patterns to a sorted, de-duplicated file
// list. Literal paths pass through unchanged.
func expandGlobs(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			paths = append(paths, pattern)
			continue
		}

		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			paths = append(paths, filepath.Join(base, m))
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}
