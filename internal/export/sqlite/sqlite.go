package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robalyx/promptaudit/internal/export/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	// FileName is the name of the exported database.
	FileName = "results.db"
	// Table holds one row per audited prompt.
	Table = "results"

	batchSize = 1000
)

// Exporter handles exporting audit records to a SQLite database.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes records to results.db, replacing any previous database.
func (e *Exporter) Export(records []*types.Record) error {
	path := filepath.Join(e.outDir, FileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing file %s: %w", FileName, err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer conn.Close()

	err = sqlitex.ExecuteTransient(conn, `
		CREATE TABLE `+Table+` (
			id TEXT PRIMARY KEY,
			prompt_hash TEXT NOT NULL,
			status TEXT NOT NULL,
			pipeline TEXT NOT NULL,
			trigger_name TEXT NOT NULL,
			reasons TEXT NOT NULL,
			tags TEXT NOT NULL
		)
	`, nil)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	for i := 0; i < len(records); i += batchSize {
		if err := insertBatch(conn, records[i:min(i+batchSize, len(records))]); err != nil {
			return err
		}
	}

	return nil
}

// insertBatch inserts records inside a single transaction.
func insertBatch(conn *sqlite.Conn, records []*types.Record) (err error) {
	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer endFn(&err)

	for _, record := range records {
		err = sqlitex.Execute(conn,
			"INSERT INTO "+Table+" (id, prompt_hash, status, pipeline, trigger_name, reasons, tags) VALUES (?, ?, ?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{
					record.ID, record.PromptHash, record.Status, record.Pipeline,
					record.Trigger, record.Reason(), record.TagList(),
				},
			})
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", record.ID, err)
		}
	}

	return nil
}
