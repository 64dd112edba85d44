package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/robalyx/promptaudit/internal/setup"
	"github.com/robalyx/promptaudit/internal/setup/telemetry"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/urfave/cli/v3"
)

const (
	// CLILogDir specifies where CLI log files are stored.
	CLILogDir = "logs/cli_logs"
)

// ErrStatsDisabled is returned by the stats command when Redis is not enabled.
var ErrStatsDisabled = errors.New("verdict statistics require redis to be enabled")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "promptaudit",
		Usage: "Audit image generation prompts against the configured word lists",
		Commands: []*cli.Command{
			{
				Name:      "prompt",
				Usage:     "Audit a generation prompt, stopping at the first violation",
				ArgsUsage: "[text]",
				Action: withApp(func(ctx context.Context, app *setup.App, c *cli.Command) error {
					text, err := inputText(c)
					if err != nil {
						return err
					}

					result := app.Auditor.AuditPrompt(ctx, text)
					if err := printJSON(result); err != nil {
						return err
					}

					return exitCode(result)
				}),
			},
			{
				Name:      "meta",
				Usage:     "Audit image metadata and report every violation",
				ArgsUsage: "[text]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "nsfw",
						Usage: "Treat the image as NSFW",
					},
				},
				Action: withApp(func(ctx context.Context, app *setup.App, c *cli.Command) error {
					text, err := inputText(c)
					if err != nil {
						return err
					}

					result := app.Auditor.AuditMetadata(ctx, audit.Metadata{Prompt: text}, c.Bool("nsfw"))
					if err := printJSON(result); err != nil {
						return err
					}

					return exitCode(result)
				}),
			},
			{
				Name:      "highlight",
				Usage:     "Print the text with violating spans marked",
				ArgsUsage: "[text]",
				Action: withApp(func(_ context.Context, app *setup.App, c *cli.Command) error {
					text, err := inputText(c)
					if err != nil {
						return err
					}

					fmt.Println(app.Auditor.Highlight(text))

					return nil
				}),
			},
			{
				Name:      "tags",
				Usage:     "List the tags found in the text",
				ArgsUsage: "[text]",
				Action: withApp(func(_ context.Context, app *setup.App, c *cli.Command) error {
					text, err := inputText(c)
					if err != nil {
						return err
					}

					return printJSON(app.Auditor.Tags(text))
				}),
			},
			{
				Name:      "inappropriate",
				Usage:     "Classify the text as clean, minor or poi",
				ArgsUsage: "[text]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "nsfw",
						Usage: "Skip the adult content gate",
					},
				},
				Action: withApp(func(_ context.Context, app *setup.App, c *cli.Command) error {
					text, err := inputText(c)
					if err != nil {
						return err
					}

					kind := app.Auditor.Auditor().IncludesInappropriate(text, c.Bool("nsfw"))
					if kind == audit.InappropriateNone {
						fmt.Println("none")
						return nil
					}

					fmt.Println(kind)

					return cli.Exit("", 1)
				}),
			},
			batchCommand(),
			{
				Name:  "stats",
				Usage: "Print verdict counters recorded in Redis",
				Action: withApp(func(ctx context.Context, app *setup.App, _ *cli.Command) error {
					stats := app.Auditor.Stats()
					if stats == nil {
						return ErrStatsDisabled
					}

					counts := make(map[audit.Pipeline]map[string]int64)
					for _, pipeline := range []audit.Pipeline{audit.PipelinePrompt, audit.PipelineMetadata} {
						values, err := stats.Counts(ctx, pipeline)
						if err != nil {
							return err
						}

						counts[pipeline] = values
					}

					return printJSON(counts)
				}),
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// withApp initializes the application around a command action.
func withApp(action func(ctx context.Context, app *setup.App, c *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		app, err := setup.InitializeApp(ctx, telemetry.ServiceCLI, CLILogDir)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup(ctx)

		return action(ctx, app, c)
	}
}

// inputText returns the command arguments joined, or stdin when there are none.
func inputText(c *cli.Command) (string, error) {
	if c.Args().Len() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	fmt.Println(string(data))

	return nil
}

// exitCode turns a blocked verdict into exit status 1.
func exitCode(result audit.AuditResult) error {
	if result.Success {
		return nil
	}

	return cli.Exit("", 1)
}
