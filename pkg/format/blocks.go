package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1024 * 1024

type line struct {
	num  int
	text string
}

type block struct {
	index int
	lines []line
}

// splitBlocks reads r and groups non-blank lines into blocks separated by blank lines.
// Runs of blank lines and leading or trailing blanks never produce empty blocks,
// and a pending block is flushed at end of stream even without a trailing separator.
func splitBlocks(r io.Reader) ([]block, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		blocks  []block
		pending []line
		num     int
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		blocks = append(blocks, block{index: len(blocks), lines: pending})
		pending = nil
	}

	for scanner.Scan() {
		num++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			flush()
			continue
		}
		pending = append(pending, line{num: num, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read automata: %w", err)
	}
	flush()
	return blocks, nil
}

// splitList splits a comma-separated line into trimmed tokens.
func splitList(text string) []string {
	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
