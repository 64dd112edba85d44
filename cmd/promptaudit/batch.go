package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robalyx/promptaudit/internal/batch"
	"github.com/robalyx/promptaudit/internal/export"
	"github.com/robalyx/promptaudit/internal/progress"
	"github.com/robalyx/promptaudit/internal/setup"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// batchCommand audits a file of prompts and optionally exports the results.
func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Audit a file of prompts concurrently",
		Description: `Reads one prompt per line from --in (or stdin). Lines may be plain text or JSON
objects with id, prompt, nsfw and mode ("prompt" or "metadata") fields.

Prints a summary and, with --export, writes the results to a timestamped
directory under --out. Prompts are stored only as salted hashes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "in",
				Aliases: []string{"i"},
				Usage:   "Input file, stdin when empty",
			},
			&cli.StringSliceFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Export formats (csv, sqlite, binary)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "exports",
				Usage:   "Base output directory for export files",
			},
			&cli.StringFlag{
				Name:    "salt",
				Aliases: []string{"s"},
				Usage:   "Salt for hashing prompts",
			},
			&cli.StringFlag{
				Name:    "hash-type",
				Aliases: []string{"t"},
				Value:   string(export.HashTypeSHA256),
				Usage:   "Hash algorithm to use (argon2id or sha256)",
			},
			&cli.UintFlag{
				Name:  "iterations",
				Value: 1,
				Usage: "Number of hash iterations",
			},
			&cli.UintFlag{
				Name:  "memory",
				Value: 64,
				Usage: "Memory to use for Argon2id in MB",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Export description",
			},
			&cli.BoolFlag{
				Name:  "highlight",
				Usage: "Include highlighted markup of blocked prompts",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Draw a progress bar on stderr",
			},
			&cli.BoolFlag{
				Name:  "results",
				Usage: "Print every result instead of only the summary",
			},
		},
		Action: withApp(runBatch),
	}
}

func runBatch(ctx context.Context, app *setup.App, c *cli.Command) error {
	items, err := readInput(c.String("in"))
	if err != nil {
		return err
	}

	var opts []batch.Option
	if c.Bool("highlight") {
		opts = append(opts, batch.WithHighlight())
	}

	if c.Bool("progress") {
		bar := progress.NewBar(int64(len(items)), 30, "Auditing")
		renderer := progress.NewRenderer(os.Stderr, bar)

		go renderer.Render()
		defer renderer.Stop()

		opts = append(opts, batch.WithProgress(bar))
	}

	runner := batch.NewRunner(
		app.Auditor,
		app.Config.Common.Batch.Concurrency,
		app.Config.Common.Audit.MaxPromptLength,
		app.Logger,
		opts...,
	)

	results, err := runner.Run(ctx, items)
	if err != nil {
		return err
	}

	if formats := c.StringSlice("export"); len(formats) > 0 {
		outDir, err := exportResults(c, app, formats, items, results)
		if err != nil {
			return err
		}

		app.Logger.Info("Exported batch results", zap.String("directory", outDir))
	}

	if c.Bool("results") {
		return printJSON(results)
	}

	return printJSON(batch.Summarize(results))
}

// readInput reads batch items from path, or stdin when path is empty.
func readInput(path string) ([]batch.Item, error) {
	var r io.Reader = os.Stdin

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()

		r = f
	}

	return batch.ReadItems(r)
}

// exportResults writes results to a timestamped directory and returns its path.
func exportResults(
	c *cli.Command, app *setup.App, formats []string, items []batch.Item, results []batch.Result,
) (string, error) {
	timestamp := time.Now().UTC().Format("2006-01-02_150405")
	outDir := filepath.Join(c.String("out"), timestamp)

	selected := make([]export.Format, len(formats))
	for i, format := range formats {
		selected[i] = export.Format(format)
	}

	exporter, err := export.New(outDir, &export.Config{
		Description: c.String("description"),
		Salt:        c.String("salt"),
		HashType:    export.HashType(c.String("hash-type")),
		Iterations:  uint32(c.Uint("iterations")),
		Memory:      uint32(c.Uint("memory")),
		Concurrency: app.Config.Common.Batch.Concurrency,
	}, selected...)
	if err != nil {
		return "", err
	}

	entries := make([]export.Entry, len(results))
	for i, result := range results {
		entries[i] = export.Entry{
			ID:     items[i].ID,
			Prompt: items[i].Prompt,
			Result: result.Result,
			Tags:   result.Tags,
		}
	}

	if err := exporter.Export(entries); err != nil {
		return "", fmt.Errorf("failed to export results: %w", err)
	}

	return outDir, nil
}
