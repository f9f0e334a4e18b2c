// Package extract turns raw generated text into typed tool results.
// Every extractor is best-effort: model output is treated as hostile
// prose, never as a validated schema, and each extractor degrades to a
// fixed non-empty fallback instead of erroring. A successful generation
// call therefore always yields something displayable.
package extract

import (
	"regexp"
	"strings"
)

// findJSONObject returns the first balanced {...} span in text, honoring
// string literals and escapes so braces inside values do not end the span.
func findJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var blockMarker = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]\s+|(?i:idea)\s+\d+\s*[:.]?\s*)`)

// splitBlocks segments text into idea-sized blocks using numbered markers,
// falling back to blank-line runs when the model skipped numbering.
func splitBlocks(text string) []string {
	locs := blockMarker.FindAllStringIndex(text, -1)
	var raw []string
	if len(locs) > 0 {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			raw = append(raw, text[loc[1]:end])
		}
	} else {
		raw = regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	}
	var blocks []string
	for _, b := range raw {
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// labeledField pulls "Label: value" out of a block, case-insensitively.
func labeledField(block, label string) string {
	re := regexp.MustCompile(`(?im)^\s*[-*]?\s*(?:\*\*)?` + regexp.QuoteMeta(label) + `(?:\*\*)?\s*[:\-]\s*(.+)$`)
	if m := re.FindStringSubmatch(block); m != nil {
		return cleanLine(m[1])
	}
	return ""
}

// cleanLine strips markdown noise from a single extracted line.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`\"")
	return strings.TrimSpace(s)
}

// firstLine returns the first non-empty line of a block, cleaned.
func firstLine(block string) string {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimLeft(line, " \t-*>")
		if cleaned := cleanLine(line); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// dedupeCap deduplicates case-sensitively, preserving order, capped at n.
func dedupeCap(values []string, n int) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}
