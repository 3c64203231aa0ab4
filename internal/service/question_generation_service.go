package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/Quokka/config"
	"github.com/rs/zerolog/log"
)

const generationSystemInstruction = "You are an expert course instructor who writes assessment questions. " +
	"You follow output format instructions exactly and never add commentary outside the requested format."

// QuestionGenerationService turns one chunk of course text into typed
// candidate questions via the LLM backend.
type QuestionGenerationService interface {
	GenerateFromChunk(ctx context.Context, chunk Chunk) ([]CandidateQuestion, error)
}

type questionGenerationService struct {
	backend    LLMBackend
	parser     questionParser
	charLimit  int
	maxRetries int
	retryDelay time.Duration
	// sleep is swapped out in tests so retry backoff does not slow them down.
	sleep func(time.Duration)
}

func NewQuestionGenerationService(cfg *config.Config, backend LLMBackend) QuestionGenerationService {
	return &questionGenerationService{
		backend:    backend,
		charLimit:  cfg.Pipeline.PromptCharLimit,
		maxRetries: cfg.Pipeline.MaxRetries,
		retryDelay: time.Duration(cfg.Pipeline.RetryDelaySeconds) * time.Second,
		sleep:      time.Sleep,
	}
}

// GenerateFromChunk calls the backend with the fixed prompt contract, retrying
// up to maxRetries with a linearly increasing delay. After the budget is spent
// the chunk contributes zero questions; the caller decides whether that is
// fatal to the run.
func (s *questionGenerationService) GenerateFromChunk(ctx context.Context, chunk Chunk) ([]CandidateQuestion, error) {
	prompt := s.buildPrompt(chunk.Text)

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		reply, err := s.backend.Complete(ctx, generationSystemInstruction, prompt)
		if err == nil {
			candidates := s.parser.ParseCandidates(reply, chunk.ChunkID, chunk.SourceTitle)
			log.Info().
				Int("chunkId", chunk.ChunkID).
				Str("source", chunk.SourceTitle).
				Int("candidates", len(candidates)).
				Msg("Generated candidate questions from chunk")
			return candidates, nil
		}

		lastErr = err
		log.Warn().Err(err).Int("chunkId", chunk.ChunkID).Int("attempt", attempt).Msg("Generation call failed")
		if attempt < s.maxRetries {
			s.sleep(s.retryDelay * time.Duration(attempt))
		}
	}

	return nil, fmt.Errorf("%w: chunk %d: %v", ErrBackendExhausted, chunk.ChunkID, lastErr)
}

// buildPrompt requests a deterministic structural output: exactly 3 MCQs,
// 2 short-answer questions and 1 conceptual question in the tagged line
// format the parser understands. Chunk text is truncated to the prompt
// character budget.
func (s *questionGenerationService) buildPrompt(chunkText string) string {
	if len(chunkText) > s.charLimit {
		chunkText = chunkText[:s.charLimit]
	}

	var b strings.Builder
	b.WriteString("Based on the following course material, generate assessment questions.\n\n")
	b.WriteString("Course material:\n---\n")
	b.WriteString(chunkText)
	b.WriteString("\n---\n\n")
	b.WriteString("Generate EXACTLY:\n")
	b.WriteString("- 3 multiple choice questions\n")
	b.WriteString("- 2 short answer questions\n")
	b.WriteString("- 1 conceptual question\n\n")
	b.WriteString("Use EXACTLY this output format, with no extra commentary:\n\n")
	b.WriteString("MCQ:\n")
	b.WriteString("Q1: <question text>\n")
	b.WriteString("A) <option>\n")
	b.WriteString("B) <option>\n")
	b.WriteString("C) <option>\n")
	b.WriteString("D) <option>\n")
	b.WriteString("CORRECT: <letter A-D>\n")
	b.WriteString("Q2: ... (same shape)\n")
	b.WriteString("Q3: ... (same shape)\n\n")
	b.WriteString("SHORT:\n")
	b.WriteString("Q1: <question text>\n")
	b.WriteString("ANSWER: <expected answer>\n")
	b.WriteString("Q2: ... (same shape)\n\n")
	b.WriteString("CONCEPTUAL:\n")
	b.WriteString("Q1: <question text>\n")
	b.WriteString("KEY_POINTS: <key points a good answer covers>\n")
	return b.String()
}
