package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single recorded event line.
const maxLineSize = 1024 * 1024

// DecodeJSONL reads one RawEvent per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) ([]RawEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var events []RawEvent
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var ev RawEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("line %d: invalid event: %w", line, err)
		}
		if _, err := kindOf(ev.Type); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}
