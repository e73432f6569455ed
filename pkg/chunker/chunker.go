package chunker

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/pkg/utils"
)

// Strategy selects how text is split into sentences before accumulation.
type Strategy int

const (
	// StrategySentence splits on terminal punctuation followed by whitespace
	// and an uppercase letter, drops short noise sentences and does not
	// overlap chunks.
	StrategySentence Strategy = iota
	// StrategyPage splits on any run of terminal punctuation and carries a
	// character overlap between consecutive chunks.
	StrategyPage
)

const (
	DefaultMinTokens         = 200
	DefaultMaxTokens         = 400
	DefaultPageOverlap       = 100
	DefaultMinSentenceLength = 10

	charsPerToken = 4
	charsPerPage  = 2000
)

// Chunker splits raw document text into bounded, sentence-aligned chunks.
type Chunker struct {
	strategy          Strategy
	minTokens         int
	maxTokens         int
	overlap           int
	minSentenceLength int
	now               func() time.Time
}

type Option func(*Chunker)

func WithStrategy(s Strategy) Option {
	return func(c *Chunker) {
		c.strategy = s
	}
}

// WithTokenBand sets the estimated-token band a chunk is closed in.
func WithTokenBand(minTokens, maxTokens int) Option {
	return func(c *Chunker) {
		if minTokens > 0 && maxTokens >= minTokens {
			c.minTokens = minTokens
			c.maxTokens = maxTokens
		}
	}
}

// WithOverlap overrides the strategy's default overlap in characters.
func WithOverlap(chars int) Option {
	return func(c *Chunker) {
		if chars >= 0 {
			c.overlap = chars
		}
	}
}

func WithMinSentenceLength(n int) Option {
	return func(c *Chunker) {
		c.minSentenceLength = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Chunker) {
		c.now = now
	}
}

func New(opts ...Option) *Chunker {
	c := &Chunker{
		strategy:          StrategySentence,
		minTokens:         DefaultMinTokens,
		maxTokens:         DefaultMaxTokens,
		overlap:           -1,
		minSentenceLength: DefaultMinSentenceLength,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.overlap < 0 {
		if c.strategy == StrategyPage {
			c.overlap = DefaultPageOverlap
		} else {
			c.overlap = 0
		}
	}
	// Overlap must leave room for new content inside the upper bound.
	if maxChars := c.maxTokens * charsPerToken; c.overlap >= maxChars/2 {
		c.overlap = maxChars / 4
	}
	return c
}

// EstimateTokens approximates the token count as ceil(runes / 4).
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// Chunk splits text into chunks labelled with documentLabel. A pageNumber
// <= 0 lets the chunker estimate pages from character offsets.
func (c *Chunker) Chunk(text, documentLabel string, pageNumber int) []entity.Chunk {
	chunks := c.chunkFrom(text, documentLabel, pageNumber, 0)
	return Deduplicate(chunks)
}

// ChunkPages chunks each page on its own so chunks carry exact page numbers.
// Indexes stay continuous across pages.
func (c *Chunker) ChunkPages(pages []string, documentLabel string) []entity.Chunk {
	var all []entity.Chunk
	for i, page := range pages {
		all = append(all, c.chunkFrom(page, documentLabel, i+1, len(all))...)
	}
	return Deduplicate(all)
}

func (c *Chunker) chunkFrom(text, documentLabel string, pageNumber, firstIndex int) []entity.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := c.accumulate(c.splitSentences(text))
	createdAt := c.now()

	chunks := make([]entity.Chunk, 0, len(pieces))
	for i, p := range pieces {
		index := firstIndex + i
		page := pageNumber
		if page <= 0 {
			page = p.start/charsPerPage + 1
		}
		chunks = append(chunks, entity.Chunk{
			Id:      fmt.Sprintf("%s_chunk_%d", documentLabel, index),
			Content: p.content,
			Metadata: entity.ChunkMetadata{
				DocumentId:         documentLabel,
				ChapterTitle:       GuessChapter(p.content),
				PageNumber:         page,
				ChunkIndex:         index,
				CreatedAt:          createdAt,
				TokenCountEstimate: EstimateTokens(p.content),
				ContentType:        GuessContentType(p.content),
			},
		})
	}
	return chunks
}

type piece struct {
	content string
	start   int
}

// accumulate groups sentences into chunks using the token band rule.
func (c *Chunker) accumulate(sentences []sentence) []piece {
	var (
		pieces      []piece
		buffer      string
		bufferStart int
		fresh       bool // buffer holds content not yet emitted
	)

	emit := func(content string, start int) {
		content = strings.TrimSpace(content)
		if content != "" {
			pieces = append(pieces, piece{content: content, start: start})
		}
	}

	for _, s := range sentences {
		for _, part := range c.fit(s) {
			potential := part.text
			if buffer != "" {
				potential = buffer + " " + part.text
			}
			tokens := EstimateTokens(potential)

			switch {
			case tokens > c.maxTokens && fresh:
				emit(buffer, bufferStart)
				buffer = joinNonEmpty(c.tail(buffer), part.text)
				bufferStart = part.start
				fresh = true
			case tokens >= c.minTokens && tokens <= c.maxTokens:
				if !fresh {
					bufferStart = part.start
				}
				emit(potential, bufferStart)
				buffer = c.tail(potential)
				fresh = false
			default:
				if !fresh {
					bufferStart = part.start
				}
				buffer = potential
				fresh = true
			}
		}
	}

	if fresh {
		emit(buffer, bufferStart)
	}
	return pieces
}

// fit hard-splits a sentence that cannot fit in one chunk on its own.
func (c *Chunker) fit(s sentence) []sentence {
	limit := c.maxTokens*charsPerToken - c.overlap - 1
	if utf8.RuneCountInString(s.text) <= limit {
		return []sentence{s}
	}

	parts := utils.SplitText(s.text, limit, 0)
	out := make([]sentence, 0, len(parts))
	offset := s.start
	for _, p := range parts {
		out = append(out, sentence{text: p, start: offset})
		offset += utf8.RuneCountInString(p) + 1
	}
	return out
}

// tail returns the overlap carried into the next chunk.
func (c *Chunker) tail(text string) string {
	if c.overlap == 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= c.overlap {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(string(runes[len(runes)-c.overlap:]))
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

// Deduplicate drops chunks whose lowercase trimmed content already appeared,
// keeping the first occurrence.
func Deduplicate(chunks []entity.Chunk) []entity.Chunk {
	seen := make(map[string]struct{}, len(chunks))
	unique := make([]entity.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		key := strings.ToLower(strings.TrimSpace(ch.Content))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, ch)
	}
	return unique
}
