package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robalyx/promptaudit/internal/export/types"
)

// FileName is the name of the exported file.
const FileName = "results.csv"

// Header lists the exported columns.
var Header = []string{"id", "prompt_hash", "status", "pipeline", "trigger", "reasons", "tags"}

// Exporter handles exporting audit records to a csv file.
type Exporter struct {
	outDir string
}

// New creates a new csv exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes records to results.csv, replacing any previous file.
func (e *Exporter) Export(records []*types.Record) error {
	file, err := os.Create(filepath.Join(e.outDir, FileName))
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, record := range records {
		if err := writer.Write([]string{
			record.ID,
			record.PromptHash,
			record.Status,
			record.Pipeline,
			record.Trigger,
			record.Reason(),
			record.TagList(),
		}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv file: %w", err)
	}

	return nil
}
