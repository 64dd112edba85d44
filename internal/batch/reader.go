package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// maxLineSize bounds a single input line.
const maxLineSize = 4 << 20

// ReadItems reads one item per line. A line is either a JSON object with id, prompt,
// nsfw and mode fields or a plain prompt. Blank lines are skipped and items without
// an id get a random one.
func ReadItems(r io.Reader) ([]Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		items  []Item
		lineNo int
	)

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		item := Item{Prompt: line}
		if strings.HasPrefix(line, "{") {
			item = Item{}
			if err := sonic.UnmarshalString(line, &item); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidInput, lineNo, err)
			}
		}

		switch item.Mode {
		case "":
			item.Mode = ModePrompt
		case ModePrompt, ModeMetadata:
		default:
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidMode, lineNo, item.Mode)
		}

		if item.ID == "" {
			item.ID = uuid.NewString()
		}

		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}

	return items, nil
}
