package csharp

import "strings"

// CountLOC counts lines that are neither blank nor fully covered by a
// comment, using the documented fallback heuristic: a line whose trimmed
// form begins with "//", "/*", or "*" is treated as fully commented.
func CountLOC(text []byte) int {
	lines := strings.Split(string(text), "\n")

	count := 0
	inBlockComment := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if inBlockComment {
			idx := strings.Index(line, "*/")
			if idx < 0 {
				continue
			}

			inBlockComment = false

			if strings.TrimSpace(line[idx+2:]) == "" {
				continue
			}

			count++

			continue
		}

		switch {
		case strings.HasPrefix(line, "//"), strings.HasPrefix(line, "*"):
			continue
		case strings.HasPrefix(line, "/*"):
			if idx := strings.Index(line, "*/"); idx < 0 {
				inBlockComment = true
			} else if strings.TrimSpace(line[idx+2:]) != "" {
				count++
			}
		default:
			count++
		}
	}

	return count
}
