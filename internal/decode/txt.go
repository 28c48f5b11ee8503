package decode

import "strings"

// decodeTXT decodes bytes as UTF-8 with replacement of invalid sequences.
func decodeTXT(data []byte) []string {
	text := strings.ToValidUTF8(string(data), "�")
	return splitLines(text)
}
