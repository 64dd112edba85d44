package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/robalyx/promptaudit/internal/export/binary"
	"github.com/robalyx/promptaudit/internal/export/csv"
	"github.com/robalyx/promptaudit/internal/export/sqlite"
	"github.com/robalyx/promptaudit/internal/export/types"
	"github.com/robalyx/promptaudit/pkg/audit"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrUnsupportedHashType = errors.New("unsupported hash type")
)

// Format represents a supported export format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatBinary Format = "binary"
	FormatCSV    Format = "csv"
)

// EngineVersion represents the version of the export engine.
// This should be updated when making breaking changes to the export format.
const EngineVersion = "1.0.0"

// ConfigFile is written next to the exported files.
const ConfigFile = "export_config.json"

// Config holds the configuration for exports.
type Config struct {
	Description string   `json:"description"`
	Salt        string   `json:"salt"`
	HashType    HashType `json:"hashType"`
	Iterations  uint32   `json:"iterations"`
	Memory      uint32   `json:"memory,omitempty"`
	Concurrency int      `json:"-"`
}

// Entry is one audited prompt to export.
type Entry struct {
	ID     string
	Prompt string
	Result audit.AuditResult
	Tags   []string
}

// writer is implemented by every format exporter.
type writer interface {
	Export(records []*types.Record) error
}

// Exporter writes audit results in one or more formats.
type Exporter struct {
	outDir  string
	config  *Config
	formats []Format
}

// New creates a new exporter instance. At least one format is required.
func New(outDir string, config *Config, formats ...Format) (*Exporter, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no format selected", ErrUnsupportedFormat)
	}

	for _, format := range formats {
		if _, err := newWriter(format, outDir); err != nil {
			return nil, err
		}
	}

	switch config.HashType {
	case HashTypeSHA256, HashTypeArgon2id:
	case "":
		config.HashType = HashTypeSHA256
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHashType, config.HashType)
	}

	return &Exporter{
		outDir:  outDir,
		config:  config,
		formats: formats,
	}, nil
}

// Export hashes the prompts of entries and writes every configured format.
func (e *Exporter) Export(entries []Entry) error {
	if err := os.MkdirAll(e.outDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	records := e.records(entries)

	// Save config file
	jsonConfig := struct {
		*Config

		EngineVersion string `json:"engineVersion"`
		Records       int    `json:"records"`
	}{
		Config:        e.config,
		EngineVersion: EngineVersion,
		Records:       len(records),
	}

	configData, err := sonic.MarshalIndent(jsonConfig, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal export config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.outDir, ConfigFile), configData, 0o600); err != nil {
		return fmt.Errorf("failed to write export config: %w", err)
	}

	for _, format := range e.formats {
		w, err := newWriter(format, e.outDir)
		if err != nil {
			return err
		}

		if err := w.Export(records); err != nil {
			return fmt.Errorf("failed to export %s format: %w", format, err)
		}
	}

	return nil
}

// records converts entries to export records.
func (e *Exporter) records(entries []Entry) []*types.Record {
	prompts := make([]string, len(entries))
	for i, entry := range entries {
		prompts[i] = entry.Prompt
	}

	hashes := hashPrompts(prompts, e.config)

	records := make([]*types.Record, len(entries))
	for i, entry := range entries {
		status := types.StatusBlocked
		if entry.Result.Success {
			status = types.StatusPassed
		}

		records[i] = &types.Record{
			ID:         entry.ID,
			PromptHash: hashes[i],
			Status:     status,
			Pipeline:   string(entry.Result.Pipeline),
			Trigger:    string(entry.Result.Trigger),
			Reasons:    entry.Result.BlockedFor,
			Tags:       entry.Tags,
		}
	}

	return records
}

// newWriter returns the exporter for a format.
func newWriter(format Format, outDir string) (writer, error) {
	switch format {
	case FormatSQLite:
		return sqlite.New(outDir), nil
	case FormatBinary:
		return binary.New(outDir), nil
	case FormatCSV:
		return csv.New(outDir), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
