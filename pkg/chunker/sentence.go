package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type sentence struct {
	text  string
	start int // rune offset in the source text
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func (c *Chunker) splitSentences(text string) []sentence {
	var raw []sentence
	if c.strategy == StrategyPage {
		raw = splitOnTerminals(text)
	} else {
		raw = splitOnCapitalBoundaries(text)
	}

	out := make([]sentence, 0, len(raw))
	for _, s := range raw {
		if s.text == "" {
			continue
		}
		if c.strategy == StrategySentence && utf8.RuneCountInString(s.text) <= c.minSentenceLength {
			continue
		}
		out = append(out, s)
	}
	return out
}

// splitOnCapitalBoundaries splits where terminal punctuation is followed by
// whitespace and then an uppercase letter.
func splitOnCapitalBoundaries(text string) []sentence {
	runes := []rune(text)
	var out []sentence
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		out = append(out, trimmed(runes, start, i+1))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, trimmed(runes, start, len(runes)))
	}
	return out
}

// splitOnTerminals splits after any run of terminal punctuation that ends a
// word, so decimals such as 3.14 stay intact.
func splitOnTerminals(text string) []sentence {
	runes := []rune(text)
	var out []sentence
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 < len(runes) && !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}
		out = append(out, trimmed(runes, start, j+1))
		start = j + 1
		i = j
	}
	if start < len(runes) {
		out = append(out, trimmed(runes, start, len(runes)))
	}
	return out
}

func trimmed(runes []rune, from, to int) sentence {
	for from < to && unicode.IsSpace(runes[from]) {
		from++
	}
	return sentence{text: strings.TrimSpace(string(runes[from:to])), start: from}
}
