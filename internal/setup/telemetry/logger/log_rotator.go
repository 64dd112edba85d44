package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator wraps a log file and keeps it from growing past a fixed number of lines.
// Once twice the limit has been written, the file is rewritten with only the newest lines.
type LogRotator struct {
	writer   io.Writer
	buffer   *RingBuffer
	filePath string
	mutex    sync.Mutex
}

// NewLogRotator creates a new LogRotator. A maxLines of zero or less disables rotation.
func NewLogRotator(writer io.Writer, maxLines int, filePath string) *LogRotator {
	var buffer *RingBuffer
	if maxLines > 0 {
		buffer = NewRingBuffer(maxLines)
	}

	return &LogRotator{
		writer:   writer,
		buffer:   buffer,
		filePath: filePath,
	}
}

// Write implements io.Writer and maintains the line buffer.
func (w *LogRotator) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.writer.Write(p)
	if err != nil || w.buffer == nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.buffer.Add(line)

		if w.buffer.totalSeen >= w.buffer.capacity*2 {
			if err := w.rotate(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}

			w.buffer.totalSeen = w.buffer.size
		}
	}

	return n, nil
}

// Close closes the underlying writer if it is closable.
func (w *LogRotator) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if closer, ok := w.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// rotate replaces the log file with the buffered lines.
func (w *LogRotator) rotate() error {
	lines := w.buffer.Lines()
	if len(lines) == 0 {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(w.filePath), "temp-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	if err := writeAndSync(temp, strings.Join(lines, "\n")+"\n"); err != nil {
		os.Remove(tempPath)
		return err
	}

	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	// On Windows, remove the original file first
	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.writer = newFile

	return nil
}

// writeAndSync writes content to file, flushes it and closes it.
func writeAndSync(file *os.File, content string) error {
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return err
	}

	return file.Sync()
}
