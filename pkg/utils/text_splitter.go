package utils

import "strings"

// SplitText splits text into pieces of at most chunkSize runes, breaking at
// whitespace when a break exists inside the window. Consecutive pieces share
// up to overlap runes of trailing context.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if chunkSize <= 0 || totalLen <= chunkSize {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < totalLen {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		// Prefer the last whitespace inside the window so words stay whole.
		cut := end
		for i := end; i > start+chunkSize/2; i-- {
			if isSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[start:cut])))

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
