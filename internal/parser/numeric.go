package parser

import (
	"math"
	"strconv"
	"strings"
)

// splitDelimited splits one record on delim. A delimiter inside a
// double-quoted field is literal text, and "" inside quotes is an escaped
// quote. Fields are trimmed of whitespace and of a surrounding quote pair.
func splitDelimited(line string, delim rune) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	return append(fields, cleanField(cur.String()))
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// splitRecords breaks text into trimmed, non-blank records. Line breaks
// inside a double-quoted field do not end the record. A quote still open at
// the end of the text is treated as stray, and the unfinished record is split
// back into physical lines.
func splitRecords(text string) []string {
	var (
		records  []string
		start    int
		inQuotes bool
	)

	flush := func(end int) {
		rec := strings.TrimSpace(text[start:end])
		if rec != "" {
			records = append(records, rec)
		}
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				flush(i)
				start = i + 1
			}
		}
	}
	if !inQuotes {
		flush(len(text))
		return records
	}

	for _, line := range strings.Split(text[start:], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			records = append(records, line)
		}
	}
	return records
}

// parseNumber parses a decimal number, accepting a comma as the decimal
// separator. Only the first comma is rewritten, so "1,234,5" is rejected.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
