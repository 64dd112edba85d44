package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/robalyx/promptaudit/internal/wordlist"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "wordlist",
		Usage: "Wordlist validation and analysis tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Path to wordlist.jsonc, searches the config paths when empty",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Check wordlist for errors",
				Description: `Check wordlist for actual errors:
- Exact duplicate terms within a category
- Phrases made redundant by a single word of the same category
- Blank entries and bracket fragments that fail to compile
- Empty required categories and empty tags
- Plural redundancy (manual plurals that the matcher handles automatically)
- Young nouns that are also NSFW words, POIs that are also blocklisted
- Terms shared between tags

Returns exit code 1 if errors found, 0 if clean.`,
				Action: func(_ context.Context, c *cli.Command) error {
					deps, err := setupDependencies(c.String("path"))
					if err != nil {
						return fmt.Errorf("failed to setup dependencies: %w", err)
					}

					issues := wordlist.ValidateWordlist(deps.lists)

					if len(issues) > 0 {
						fmt.Printf("❌ Found %d error(s):\n\n", len(issues))
						for _, issue := range issues {
							fmt.Printf("• [%s] %s\n", issue.Category, issue.Description)
						}
						return cli.Exit("", 1)
					}

					fmt.Println("✅ No errors found")
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Compile the wordlist and print pattern counts",
				Action: func(_ context.Context, c *cli.Command) error {
					deps, err := setupDependencies(c.String("path"))
					if err != nil {
						return fmt.Errorf("failed to setup dependencies: %w", err)
					}

					registry, err := audit.NewRegistry(deps.lists)
					if err != nil {
						return err
					}

					for _, category := range deps.lists.Categories() {
						fmt.Printf("%-18s %d\n", category.Name, len(category.Words))
					}
					fmt.Printf("%-18s %d\n", "tags", len(deps.lists.Tags))
					fmt.Printf("%-18s %d\n", "patterns", registry.PatternCount())
					fmt.Printf("%-18s %s\n", "fingerprint", registry.Fingerprint())

					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// cliDependencies holds the common dependencies needed by CLI commands.
type cliDependencies struct {
	lists  *audit.WordLists
	logger *zap.Logger
}

// setupDependencies initializes all dependencies needed by the CLI.
func setupDependencies(path string) (*cliDependencies, error) {
	// Create development logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var lists *audit.WordLists
	if path != "" {
		lists, err = config.LoadWordlistFile(path)
	} else {
		lists, err = config.LoadWordlist(&config.Wordlist{}, "")
	}

	if err != nil {
		return nil, err
	}

	logger.Info("Loaded wordlist",
		zap.Int("categories", len(lists.Categories())),
		zap.Int("tags", len(lists.Tags)))

	return &cliDependencies{
		lists:  lists,
		logger: logger,
	}, nil
}
