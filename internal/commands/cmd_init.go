package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/aldersky/loom/internal/core/config"
	"github.com/aldersky/loom/internal/core/styles"
	"github.com/aldersky/loom/internal/printer"
)

type InitCmd struct {
	flags *Flags

	yes      bool
	force    bool
	language string
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create the loom configuration file",
		UsageText: "loom init [options]",
		Description: `Sets up loom for first-time use.

Prompts for the target language and color theme, then writes the config
file. Use --yes to accept defaults without prompts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "lang",
				Usage:       "target language code (e.g. en, de)",
				Destination: &cmd.language,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if _, err := os.Stat(cmd.flags.ConfigPath); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", cmd.flags.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(cmd.flags.ConfigPath + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if cmd.language != "" {
		cfg.TargetLanguage = cmd.language
	}

	if !cmd.yes {
		themeOptions := make([]huh.Option[string], 0, len(styles.ThemeNames()))
		for _, name := range styles.ThemeNames() {
			themeOptions = append(themeOptions, huh.NewOption(name, name))
		}

		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Target language").
				Description("Language code your pipeline translates into (e.g. en, de)").
				Value(&cfg.TargetLanguage),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&cfg.TUI.Theme),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cmd.flags.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := cfg.Save(cmd.flags.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	p.Successf("Created config: %s", cmd.flags.ConfigPath)
	p.Infof("Next: run 'loom import <files>' and then 'loom' to open the editor")
	return nil
}
