package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// GenerationResult is the caller-facing summary of one generation request.
type GenerationResult struct {
	QuizID         string
	TotalQuestions int
	TotalMarks     int
	AlreadyExisted bool
	Message        string
}

// QuizOrchestratorService coordinates the full pipeline for a course:
// idempotency check, material discovery, extraction, chunking, generation,
// consolidation and persistence.
type QuizOrchestratorService interface {
	GenerateQuizForCourse(ctx context.Context, courseID string) (*GenerationResult, error)
	GetQuizForCourse(courseID string) (*model.Quiz, error)
}

type quizOrchestratorService struct {
	cfg          *config.Config
	quizRepo     repository.QuizRepository
	locator      MaterialLocator
	fetcher      FileFetcher
	extractor    TextExtractionService
	chunker      ChunkingService
	generator    QuestionGenerationService
	consolidator QuizConsolidationService
	courseLocks  sync.Map // courseID -> *sync.Mutex
	pacingDelay  time.Duration
	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewQuizOrchestratorService(
	cfg *config.Config,
	quizRepo repository.QuizRepository,
	locator MaterialLocator,
	fetcher FileFetcher,
	extractor TextExtractionService,
	chunker ChunkingService,
	generator QuestionGenerationService,
	consolidator QuizConsolidationService,
) QuizOrchestratorService {
	return &quizOrchestratorService{
		cfg:          cfg,
		quizRepo:     quizRepo,
		locator:      locator,
		fetcher:      fetcher,
		extractor:    extractor,
		chunker:      chunker,
		generator:    generator,
		consolidator: consolidator,
		pacingDelay:  time.Duration(cfg.Pipeline.PacingDelayMillis) * time.Millisecond,
		sleep:        time.Sleep,
	}
}

// GenerateQuizForCourse is safe to call repeatedly: an existing active
// AI-generated quiz for the course is returned unchanged, and a per-course
// lock closes the check-then-act window between the existence check and the
// final write.
func (s *quizOrchestratorService) GenerateQuizForCourse(ctx context.Context, courseID string) (*GenerationResult, error) {
	lockAny, _ := s.courseLocks.LoadOrStore(courseID, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	if !lock.TryLock() {
		return nil, ErrGenerationInProgress
	}
	defer lock.Unlock()

	if existing, err := s.quizRepo.FindActiveAIQuiz(courseID, model.FinalQuizWeek); err != nil {
		return nil, fmt.Errorf("checking for existing quiz: %w", err)
	} else if existing != nil {
		log.Info().Str("courseId", courseID).Str("quizId", existing.ID).Msg("Quiz already exists for course, skipping generation")
		return &GenerationResult{
			QuizID:         existing.ID,
			TotalQuestions: existing.TotalQuestions,
			TotalMarks:     existing.TotalMarks,
			AlreadyExisted: true,
			Message:        "Quiz already generated for this course",
		}, nil
	}

	materials, err := s.locator.ListMaterials(courseID)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("%w: course %s", ErrNoMaterialsFound, courseID)
	}

	texts := s.extractAll(materials)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: course %s (%d materials)", ErrAllExtractionsFailed, courseID, len(materials))
	}

	chunks := s.chunker.ChunkMultipleDocuments(texts)
	candidates := s.generateAll(ctx, chunks)
	final := s.consolidator.Consolidate(candidates)

	target := s.cfg.Pipeline.TargetMCQ + s.cfg.Pipeline.TargetShortAnswer + s.cfg.Pipeline.TargetConceptual
	if len(final) < s.cfg.Pipeline.MinFinalQuestions {
		return nil, fmt.Errorf("%w: %d/%d. Need more course materials", ErrInsufficientQuestions, len(final), target)
	}

	quiz := s.buildQuiz(courseID, final)
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("persisting generated quiz: %w", err)
	}

	log.Info().
		Str("courseId", courseID).
		Str("quizId", quiz.ID).
		Int("questions", quiz.TotalQuestions).
		Int("totalMarks", quiz.TotalMarks).
		Msg("Generated quiz for course")

	return &GenerationResult{
		QuizID:         quiz.ID,
		TotalQuestions: quiz.TotalQuestions,
		TotalMarks:     quiz.TotalMarks,
		Message:        fmt.Sprintf("Generated quiz with %d questions", quiz.TotalQuestions),
	}, nil
}

func (s *quizOrchestratorService) GetQuizForCourse(courseID string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindActiveAIQuiz(courseID, model.FinalQuizWeek)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

// extractAll runs extraction per material, skipping failures. The run is only
// doomed when nothing survives.
func (s *quizOrchestratorService) extractAll(materials []Material) []ExtractedText {
	var texts []ExtractedText
	for _, m := range materials {
		text, err := s.extractOne(m)
		if err != nil {
			log.Warn().Err(err).Str("material", m.Title).Msg("Skipping material after extraction failure")
			continue
		}
		texts = append(texts, ExtractedText{
			SourceTitle:      m.Title,
			Text:             text,
			SourceMaterialID: m.SourceID,
		})
	}
	return texts
}

func (s *quizOrchestratorService) extractOne(m Material) (string, error) {
	localPath, temporary, err := s.fetcher.FetchToLocalFile(m.FileRef)
	if err != nil {
		return "", err
	}
	if temporary {
		defer s.fetcher.DeleteLocalFile(localPath)
	}

	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, localPath)
	}

	text, err := s.extractor.ExtractText(localPath)
	if err != nil {
		return "", err
	}
	if len(text) < s.cfg.Pipeline.MinExtractedChars {
		return "", fmt.Errorf("extracted text too short (%d chars) for %s", len(text), m.Title)
	}
	return text, nil
}

// generateAll walks the chunks sequentially with a pacing delay between calls.
// A chunk that exhausts its retries contributes zero candidates.
func (s *quizOrchestratorService) generateAll(ctx context.Context, chunks []Chunk) []CandidateQuestion {
	var candidates []CandidateQuestion
	for i, chunk := range chunks {
		if i > 0 {
			s.sleep(s.pacingDelay)
		}
		generated, err := s.generator.GenerateFromChunk(ctx, chunk)
		if err != nil {
			log.Warn().Err(err).Int("chunkId", chunk.ChunkID).Msg("Chunk contributed no questions")
			continue
		}
		candidates = append(candidates, generated...)
	}
	return candidates
}

func (s *quizOrchestratorService) buildQuiz(courseID string, final []FinalQuestion) *model.Quiz {
	quiz := &model.Quiz{
		ID:               uuid.NewString(),
		CourseID:         courseID,
		WeekNumber:       model.FinalQuizWeek,
		Title:            "Final Course Quiz",
		Topic:            "Course materials",
		Description:      "Automatically generated from the course materials",
		TimeLimitMinutes: 60,
		Status:           model.QuizStatusActive,
		AIGenerated:      true,
		CreatedBy:        model.SystemGeneratorMarker,
	}

	totalMarks := 0
	for _, fq := range final {
		q := model.QuizQuestion{
			QuizID:         quiz.ID,
			QuestionNumber: fq.QuestionNumber,
			Type:           fq.Type,
			QuestionText:   fq.QuestionText,
			CorrectOption:  fq.CorrectIndex,
			ExpectedAnswer: fq.ExpectedAnswer,
			KeyPoints:      fq.KeyPoints,
			Marks:          fq.Marks,
			Difficulty:     fq.Difficulty,
			Explanation:    fq.Explanation,
			RequiresReview: fq.Type != model.QuestionTypeMCQ,
		}
		if len(fq.Options) > 0 {
			if raw, err := encodeOptions(fq.Options); err == nil {
				q.Options = raw
			}
		}
		quiz.Questions = append(quiz.Questions, q)
		totalMarks += fq.Marks
	}
	quiz.TotalQuestions = len(final)
	quiz.TotalMarks = totalMarks
	return quiz
}

func encodeOptions(options []string) (datatypes.JSON, error) {
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
