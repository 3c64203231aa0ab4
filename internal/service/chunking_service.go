package service

import (
	"strings"

	"github.com/lshigami/Quokka/config"
	"github.com/rs/zerolog/log"
)

// ChunkingService splits extracted texts into bounded-size chunks, each sized
// for one generation call. Paragraphs are never split mid-unit.
type ChunkingService interface {
	ChunkText(text string) []Chunk
	ChunkMultipleDocuments(docs []ExtractedText) []Chunk
}

type chunkingService struct {
	minWords    int
	targetWords int
	maxWords    int
}

func NewChunkingService(cfg *config.Config) ChunkingService {
	return &chunkingService{
		minWords:    cfg.Pipeline.MinChunkWords,
		targetWords: cfg.Pipeline.TargetChunkWords,
		maxWords:    cfg.Pipeline.MaxChunkWords,
	}
}

// ChunkText greedily packs blank-line-delimited paragraphs into chunks.
// A buffer flushes when adding the next paragraph would exceed maxWords and
// the buffer already holds at least minWords, or when it reaches targetWords.
// The trailing remainder is emitted only if it has at least minWords/2 words.
func (s *chunkingService) ChunkText(text string) []Chunk {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []Chunk
	var buf []string
	bufWords := 0

	flush := func() {
		if bufWords == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Text:      strings.Join(buf, "\n\n"),
			WordCount: bufWords,
		})
		buf = nil
		bufWords = 0
	}

	for _, para := range paragraphs {
		paraWords := len(strings.Fields(para))
		if paraWords == 0 {
			continue
		}
		if bufWords+paraWords > s.maxWords && bufWords >= s.minWords {
			flush()
		}
		buf = append(buf, para)
		bufWords += paraWords
		if bufWords >= s.targetWords {
			flush()
		}
	}

	// Tiny trailing remainders carry too little context to be worth a
	// generation call.
	if bufWords >= s.minWords/2 {
		flush()
	}

	return chunks
}

// ChunkMultipleDocuments chunks each document and assigns globally unique
// sequential chunk ids across the whole batch, preserving source attribution.
func (s *chunkingService) ChunkMultipleDocuments(docs []ExtractedText) []Chunk {
	var all []Chunk
	nextID := 1
	for _, doc := range docs {
		chunks := s.ChunkText(doc.Text)
		for i := range chunks {
			chunks[i].ChunkID = nextID
			chunks[i].SourceTitle = doc.SourceTitle
			nextID++
		}
		all = append(all, chunks...)
	}
	log.Info().Int("documents", len(docs)).Int("chunks", len(all)).Msg("Chunked course materials")
	return all
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
