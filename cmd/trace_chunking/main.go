package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/pkg/chunker"
	"ai-flashcard-be/pkg/embedding/factory"
	"ai-flashcard-be/pkg/pdf"
	"ai-flashcard-be/pkg/rag/search"

	"github.com/fatih/color"
)

func main() {
	file := flag.String("file", "", "text or PDF file to chunk")
	query := flag.String("query", "", "query to rank chunks against (defaults to the first chunk)")
	strategy := flag.String("strategy", "sentence", "chunking strategy: sentence or page")
	provider := flag.String("embedder", "hash", "embedding provider: hash or sinusoid")
	topK := flag.Int("top", 5, "number of ranked chunks to print")
	threshold := flag.Float64("threshold", 0, "minimum similarity")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: trace_chunking -file notes.pdf [-query \"...\"]")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	opts := []chunker.Option{}
	if *strategy == "page" {
		opts = append(opts, chunker.WithStrategy(chunker.StrategyPage))
	}
	chk := chunker.New(opts...)
	label := filepath.Base(*file)

	var chunks []entity.Chunk
	if pdf.IsPDF(data) {
		doc, err := pdf.ExtractPages(data)
		if err != nil {
			log.Fatalf("Failed to extract PDF: %v", err)
		}
		color.Cyan("PDF with %d pages", doc.TotalPages())
		chunks = chk.ChunkPages(doc.Pages, label)
	} else {
		chunks = chk.Chunk(string(data), label, 0)
	}
	chunks = chunker.Deduplicate(chunks)

	color.Cyan("--- %d CHUNKS ---", len(chunks))
	for _, ch := range chunks {
		color.New(color.FgYellow).Printf("[%s] ", ch.Id)
		fmt.Printf("page=%d tokens=%d type=%s chapter=%q\n",
			ch.Metadata.PageNumber, ch.Metadata.TokenCountEstimate, ch.Metadata.ContentType, ch.Metadata.ChapterTitle)
		fmt.Printf("    %s\n", preview(ch.Content, 120))
	}

	if len(chunks) == 0 {
		color.Red("No chunks produced")
		return
	}

	embedder, err := factory.NewTextEmbedder(factory.Config{Provider: *provider})
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	ctx := context.Background()
	for i := range chunks {
		vec, err := embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			log.Fatalf("Failed to embed chunk %s: %v", chunks[i].Id, err)
		}
		chunks[i].Embedding = vec
	}

	q := *query
	if q == "" {
		q = chunks[0].Content
	}
	queryVec, err := embedder.Embed(ctx, q)
	if err != nil {
		log.Fatalf("Failed to embed query: %v", err)
	}

	ranked := search.Search(queryVec, chunks, search.SearchOptions{TopK: *topK, Threshold: threshold})

	color.Cyan("--- TOP %d FOR %q ---", len(ranked), preview(q, 60))
	for i, r := range ranked {
		c := color.New(color.FgGreen)
		if r.Similarity < search.DefaultThreshold {
			c = color.New(color.FgRed)
		}
		c.Printf("%2d. %.4f ", i+1, r.Similarity)
		fmt.Printf("[%s] %s\n", r.Chunk.Id, preview(r.Chunk.Content, 100))
	}
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
