package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
)

// Block reasons surfaced to students.
const (
	blockReasonPassed         = "Already passed"
	blockReasonMaxAttempts    = "Maximum attempts reached"
	blockReasonResetNeeded    = "Maximum attempts reached; an instructor must reset the block"
	blockReasonCourseNotReady = "Course is not completed yet"
)

// EligibilityState is the derived answer to "can this student attempt this
// quiz right now". It is recomputed from the attempt history on every query
// and never persisted, so it cannot go stale.
type EligibilityState struct {
	CanAttempt        bool
	RemainingAttempts int
	TotalAttempts     int
	IsBlocked         bool
	BlockReason       string
	BlockExpiresAt    *time.Time
	IsPassed          bool
	BestScore         int
}

// AttemptResult summarizes a recorded attempt together with the freshly
// recomputed post-submission eligibility.
type AttemptResult struct {
	AttemptID         string
	Score             int
	TotalMarks        int
	Percentage        int
	IsPassed          bool
	RemainingAttempts int
	IsBlocked         bool
	BlockReason       string
	BlockExpiresAt    *time.Time
}

// AttemptHistory pairs a student's attempts with their current eligibility.
type AttemptHistory struct {
	Attempts    []model.QuizAttempt
	Eligibility EligibilityState
}

// ResetResult reports the outcome of a block reset request.
type ResetResult struct {
	Success bool
	Message string
}

// AttemptGovernorService decides attempt eligibility, records and scores
// attempts, and manages the rolling block policy.
type AttemptGovernorService interface {
	CheckAttemptEligibility(studentID, courseID, quizID string) (*EligibilityState, error)
	RecordAttempt(studentID, courseID, quizID string, answers map[int]int, timeSpentSeconds int) (*AttemptResult, error)
	GetAttemptHistory(studentID, quizID string) (*AttemptHistory, error)
	ResetBlockForStudent(studentID, quizID string) (*ResetResult, error)
}

type attemptGovernorService struct {
	cfg          *config.Config
	quizRepo     repository.QuizRepository
	attemptRepo  repository.QuizAttemptRepository
	courseStatus CourseStatusProvider
	// now is swapped out in tests.
	now func() time.Time
}

func NewAttemptGovernorService(
	cfg *config.Config,
	quizRepo repository.QuizRepository,
	attemptRepo repository.QuizAttemptRepository,
	courseStatus CourseStatusProvider,
) AttemptGovernorService {
	return &attemptGovernorService{
		cfg:          cfg,
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
		courseStatus: courseStatus,
		now:          time.Now,
	}
}

// CheckAttemptEligibility recomputes the eligibility state from scratch: the
// attempt history and the owning course's current status are re-read on every
// call, which is what makes concurrent checks and retries safe.
func (s *attemptGovernorService) CheckAttemptEligibility(studentID, courseID, quizID string) (*EligibilityState, error) {
	attempts, err := s.attemptRepo.FindByStudentAndQuiz(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading attempt history: %w", err)
	}
	status, err := s.courseStatus.GetCourseStatus(courseID)
	if err != nil {
		return nil, fmt.Errorf("loading course status: %w", err)
	}
	state := s.computeEligibility(attempts, status)
	return &state, nil
}

// computeEligibility is the pure core of the governor: a function of the
// attempt history, the course status and the clock.
func (s *attemptGovernorService) computeEligibility(attempts []model.QuizAttempt, courseStatus string) EligibilityState {
	maxAttempts := s.cfg.Attempts.MaxAttempts
	state := EligibilityState{
		TotalAttempts:     len(attempts),
		RemainingAttempts: maxAttempts - len(attempts),
	}
	if state.RemainingAttempts < 0 {
		state.RemainingAttempts = 0
	}

	for _, a := range attempts {
		if a.Percentage > state.BestScore {
			state.BestScore = a.Percentage
		}
		if float64(a.Percentage) >= s.cfg.Attempts.PassingPercentage {
			state.IsPassed = true
		}
	}

	// Passing is terminal: no further attempts, ever.
	if state.IsPassed {
		state.IsBlocked = true
		state.BlockReason = blockReasonPassed
		return state
	}

	if courseStatus != model.CourseStatusCompleted {
		state.IsBlocked = true
		state.BlockReason = blockReasonCourseNotReady
		return state
	}

	if len(attempts) >= maxAttempts {
		state.IsBlocked = true
		// Attempts are ordered most recent first.
		expiry := attempts[0].SubmittedAt.AddDate(0, 0, s.cfg.Attempts.BlockDurationDays)
		state.BlockExpiresAt = &expiry
		if s.now().Before(expiry) {
			state.BlockReason = blockReasonMaxAttempts
		} else {
			// The window has elapsed but the governor never auto-recovers;
			// lifting the block takes an explicit reset.
			state.BlockReason = blockReasonResetNeeded
		}
		return state
	}

	state.CanAttempt = true
	return state
}

// RecordAttempt re-validates eligibility atomically with the scoring step,
// scores every gradable question by exact match, persists the attempt as
// Completed and returns the post-submission eligibility.
func (s *attemptGovernorService) RecordAttempt(studentID, courseID, quizID string, answers map[int]int, timeSpentSeconds int) (*AttemptResult, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}

	attempts, err := s.attemptRepo.FindByStudentAndQuiz(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading attempt history: %w", err)
	}
	status, err := s.courseStatus.GetCourseStatus(courseID)
	if err != nil {
		return nil, fmt.Errorf("loading course status: %w", err)
	}

	eligibility := s.computeEligibility(attempts, status)
	if !eligibility.CanAttempt {
		return nil, &IneligibleError{Reason: eligibility.BlockReason, BlockExpiresAt: eligibility.BlockExpiresAt}
	}

	score, totalMarks := scoreAnswers(quiz.Questions, answers)
	percentage := 0
	if totalMarks > 0 {
		percentage = int(math.Round(float64(score) / float64(totalMarks) * 100))
	}

	encoded, err := model.EncodeAnswers(answers)
	if err != nil {
		return nil, fmt.Errorf("encoding answers: %w", err)
	}

	attempt := model.QuizAttempt{
		ID:               uuid.NewString(),
		QuizID:           quizID,
		StudentID:        studentID,
		CourseID:         courseID,
		WeekNumber:       quiz.WeekNumber,
		Answers:          encoded,
		Score:            score,
		TotalMarks:       totalMarks,
		Percentage:       percentage,
		Status:           model.AttemptStatusCompleted,
		SubmittedAt:      s.now(),
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		return nil, fmt.Errorf("persisting attempt: %w", err)
	}

	log.Info().
		Str("studentId", studentID).
		Str("quizId", quizID).
		Int("score", score).
		Int("percentage", percentage).
		Msg("Recorded quiz attempt")

	post := s.computeEligibility(append([]model.QuizAttempt{attempt}, attempts...), status)
	return &AttemptResult{
		AttemptID:         attempt.ID,
		Score:             score,
		TotalMarks:        totalMarks,
		Percentage:        percentage,
		IsPassed:          post.IsPassed,
		RemainingAttempts: post.RemainingAttempts,
		IsBlocked:         post.IsBlocked,
		BlockReason:       post.BlockReason,
		BlockExpiresAt:    post.BlockExpiresAt,
	}, nil
}

// scoreAnswers sums marks over gradable questions by exact-match comparison.
// totalMarks counts only gradable questions; review-flagged short/conceptual
// questions never affect the automatic score.
func scoreAnswers(questions []model.QuizQuestion, answers map[int]int) (int, int) {
	score, totalMarks := 0, 0
	for _, q := range questions {
		if !q.Gradable() {
			continue
		}
		totalMarks += q.Marks
		if selected, ok := answers[q.QuestionNumber]; ok && selected == *q.CorrectOption {
			score += q.Marks
		}
	}
	return score, totalMarks
}

func (s *attemptGovernorService) GetAttemptHistory(studentID, quizID string) (*AttemptHistory, error) {
	attempts, err := s.attemptRepo.FindByStudentAndQuiz(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading attempt history: %w", err)
	}

	courseStatus := model.CourseStatusCompleted
	if len(attempts) > 0 {
		if status, err := s.courseStatus.GetCourseStatus(attempts[0].CourseID); err == nil {
			courseStatus = status
		}
	}

	eligibility := s.computeEligibility(attempts, courseStatus)
	return &AttemptHistory{Attempts: attempts, Eligibility: eligibility}, nil
}

// ResetBlockForStudent purges the attempt history for one quiz, but only once
// the block window has actually elapsed. The governor never auto-recovers.
func (s *attemptGovernorService) ResetBlockForStudent(studentID, quizID string) (*ResetResult, error) {
	attempts, err := s.attemptRepo.FindByStudentAndQuiz(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading attempt history: %w", err)
	}

	if len(attempts) < s.cfg.Attempts.MaxAttempts {
		return &ResetResult{Success: false, Message: "Student is not blocked"}, nil
	}

	expiry := attempts[0].SubmittedAt.AddDate(0, 0, s.cfg.Attempts.BlockDurationDays)
	if s.now().Before(expiry) {
		return &ResetResult{
			Success: false,
			Message: fmt.Sprintf("Block has not expired yet; it lifts on %s", expiry.Format("2006-01-02")),
		}, nil
	}

	if err := s.attemptRepo.DeleteByStudentAndQuiz(studentID, quizID); err != nil {
		return nil, fmt.Errorf("purging attempt history: %w", err)
	}

	log.Info().Str("studentId", studentID).Str("quizId", quizID).Msg("Reset attempt block for student")
	return &ResetResult{Success: true, Message: "Attempt history cleared; the student may attempt the quiz again"}, nil
}
