package excerpt

import "strings"

// Limit is the maximum excerpt length in runes, marker included.
const Limit = 160

const marker = "..."

// Generate builds the post preview: runs of whitespace collapse to a single
// space, the result is trimmed and cut to Limit runes ending with the marker.
func Generate(content string) string {
	return GenerateWithLimit(content, Limit)
}

func GenerateWithLimit(content string, limit int) string {
	flat := strings.Join(strings.Fields(content), " ")

	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}

	return string(runes[:limit-len(marker)]) + marker
}
