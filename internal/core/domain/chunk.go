package domain

import (
	"strings"
	"unicode/utf8"
)

// ChunkLines packs lines into messages of fewer than budget runes, keeping
// order and never splitting a line. The header opens the first chunk. A line
// that cannot fit even on its own is truncated with an ellipsis.
func ChunkLines(header string, lines []string, budget int) []string {
	if budget <= 1 {
		budget = 2
	}
	limit := budget - 1

	var chunks []string
	sb := &strings.Builder{}
	size := 0

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
			size = 0
		}
	}
	add := func(line string) {
		n := utf8.RuneCountInString(line)
		if size > 0 && size+1+n > limit {
			flush()
		}
		if size > 0 {
			sb.WriteByte('\n')
			size++
		}
		sb.WriteString(line)
		size += n
	}

	if header != "" {
		add(truncRunes(header, limit))
	}
	for _, line := range lines {
		add(truncRunes(line, limit))
	}
	flush()

	return chunks
}

func truncRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}

	count := 0
	for i := range s {
		if count == n-1 {
			return s[:i] + "…"
		}
		count++
	}

	return s
}
