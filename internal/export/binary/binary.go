package binary

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/robalyx/promptaudit/internal/export/types"
)

// FileName is the name of the exported file.
const FileName = "results.bin"

// Exporter handles exporting audit records to a compact binary file.
//
// The file starts with a little-endian uint32 record count. Each record is the raw
// prompt hash prefixed by its uint16 length, followed by the id, status, trigger
// and reasons as uint16 length-prefixed strings.
type Exporter struct {
	outDir string
}

// New creates a new binary exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes records to results.bin, replacing any previous file.
func (e *Exporter) Export(records []*types.Record) error {
	file, err := os.Create(filepath.Join(e.outDir, FileName))
	if err != nil {
		return fmt.Errorf("failed to create binary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	count := uint32(len(records)) //nolint:gosec // unlikely to overflow
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("failed to write record count: %w", err)
	}

	for _, record := range records {
		hashBytes, err := hex.DecodeString(record.PromptHash)
		if err != nil {
			return fmt.Errorf("failed to decode hash: %w", err)
		}

		for _, field := range [][]byte{
			hashBytes,
			[]byte(record.ID),
			[]byte(record.Status),
			[]byte(record.Trigger),
			[]byte(record.Reason()),
		} {
			if err := writeField(w, field); err != nil {
				return fmt.Errorf("failed to write record %s: %w", record.ID, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush binary file: %w", err)
	}

	return nil
}

// writeField writes a uint16 length followed by data.
func writeField(w io.Writer, data []byte) error {
	if len(data) > 0xFFFF {
		data = data[:0xFFFF]
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(data))); err != nil { //nolint:gosec // bounded above
		return err
	}

	_, err := w.Write(data)

	return err
}

// ReadFile decodes a file written by Export.
func ReadFile(path string) ([]*types.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open binary file: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read record count: %w", err)
	}

	records := make([]*types.Record, 0, count)

	for range count {
		fields := make([][]byte, 5)
		for i := range fields {
			if fields[i], err = readField(r); err != nil {
				return nil, fmt.Errorf("failed to read record: %w", err)
			}
		}

		record := &types.Record{
			PromptHash: hex.EncodeToString(fields[0]),
			ID:         string(fields[1]),
			Status:     string(fields[2]),
			Trigger:    string(fields[3]),
		}
		if reason := string(fields[4]); reason != "" {
			record.Reasons = []string{reason}
		}

		records = append(records, record)
	}

	return records, nil
}

// readField reads a uint16 length-prefixed field.
func readField(r io.Reader) ([]byte, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	return data, nil
}
