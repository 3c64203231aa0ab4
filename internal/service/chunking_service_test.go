package service

import (
	"strings"
	"testing"
)

// paragraph builds a paragraph of exactly n words.
func paragraph(word string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}

func smallChunker() *chunkingService {
	return &chunkingService{minWords: 10, targetWords: 20, maxWords: 25}
}

func TestChunkTextFlushesAtTarget(t *testing.T) {
	s := smallChunker()
	paras := []string{
		paragraph("alpha", 8),
		paragraph("beta", 8),
		paragraph("gamma", 8),
		paragraph("delta", 8),
		paragraph("epsilon", 8),
		paragraph("zeta", 8),
	}
	chunks := s.ChunkText(strings.Join(paras, "\n\n"))

	if len(chunks) != 2 {
		t.Fatalf("chunks: want=2 got=%d", len(chunks))
	}
	for i, c := range chunks {
		if c.WordCount != 24 {
			t.Fatalf("chunk %d word count: want=24 got=%d", i, c.WordCount)
		}
	}
}

func TestChunkTextEmitsTrailingRemainderAboveFloor(t *testing.T) {
	s := smallChunker()
	paras := []string{
		paragraph("alpha", 8),
		paragraph("beta", 8),
		paragraph("gamma", 8),
		paragraph("delta", 8),
	}
	chunks := s.ChunkText(strings.Join(paras, "\n\n"))

	// 24-word chunk, then an 8-word remainder (>= minWords/2).
	if len(chunks) != 2 {
		t.Fatalf("chunks: want=2 got=%d", len(chunks))
	}
	if chunks[1].WordCount != 8 {
		t.Fatalf("remainder word count: want=8 got=%d", chunks[1].WordCount)
	}
}

func TestChunkTextDropsTinyRemainder(t *testing.T) {
	s := smallChunker()
	chunks := s.ChunkText(paragraph("alpha", 4))
	if len(chunks) != 0 {
		t.Fatalf("tiny remainder should be dropped, got %d chunks", len(chunks))
	}
}

func TestChunkTextNeverSplitsAParagraph(t *testing.T) {
	s := smallChunker()
	// A single paragraph larger than maxWords still lands in one chunk.
	chunks := s.ChunkText(paragraph("alpha", 30))
	if len(chunks) != 1 {
		t.Fatalf("chunks: want=1 got=%d", len(chunks))
	}
	if chunks[0].WordCount != 30 {
		t.Fatalf("word count: want=30 got=%d", chunks[0].WordCount)
	}
}

func TestChunkTextFlushesBeforeExceedingMax(t *testing.T) {
	s := smallChunker()
	paras := []string{
		paragraph("alpha", 18),
		paragraph("beta", 12),
	}
	chunks := s.ChunkText(strings.Join(paras, "\n\n"))

	// 18 >= minWords and 18+12 > maxWords, so the buffer flushes first.
	if len(chunks) != 2 {
		t.Fatalf("chunks: want=2 got=%d", len(chunks))
	}
	if chunks[0].WordCount != 18 || chunks[1].WordCount != 12 {
		t.Fatalf("word counts: want=[18 12] got=[%d %d]", chunks[0].WordCount, chunks[1].WordCount)
	}
	if strings.Contains(chunks[0].Text, "beta") {
		t.Fatalf("paragraph leaked across chunk boundary")
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	s := smallChunker()
	if chunks := s.ChunkText("  \n\n  "); chunks != nil {
		t.Fatalf("want nil chunks, got %v", chunks)
	}
}

func TestChunkMultipleDocumentsAssignsGlobalIDs(t *testing.T) {
	s := smallChunker()
	docs := []ExtractedText{
		{SourceTitle: "Lecture Notes", Text: paragraph("alpha", 24)},
		{SourceTitle: "Reading Pack", Text: paragraph("beta", 24)},
	}
	chunks := s.ChunkMultipleDocuments(docs)

	if len(chunks) != 2 {
		t.Fatalf("chunks: want=2 got=%d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkID != i+1 {
			t.Fatalf("chunk %d id: want=%d got=%d", i, i+1, c.ChunkID)
		}
	}
	if chunks[0].SourceTitle != "Lecture Notes" || chunks[1].SourceTitle != "Reading Pack" {
		t.Fatalf("source attribution lost: %q %q", chunks[0].SourceTitle, chunks[1].SourceTitle)
	}
}
