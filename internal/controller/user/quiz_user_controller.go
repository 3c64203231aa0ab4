package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizUserController struct {
	orchestrator service.QuizOrchestratorService
	governor     service.AttemptGovernorService
}

func NewQuizUserController(orchestrator service.QuizOrchestratorService, governor service.AttemptGovernorService) *QuizUserController {
	return &QuizUserController{orchestrator: orchestrator, governor: governor}
}

// GetQuiz godoc
// @Summary (User) Get the final quiz for a course
// @Description Returns the active AI-generated quiz with answers stripped.
// @Tags User - Quiz & Attempts
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /courses/{course_id}/quiz [get]
func (c *QuizUserController) GetQuiz(ctx *gin.Context) {
	courseID := ctx.Param("course_id")

	quiz, err := c.orchestrator.GetQuizForCourse(courseID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No quiz available for this course"})
			return
		}
		log.Error().Err(err).Str("courseId", courseID).Msg("GetQuiz: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve quiz"})
		return
	}

	ctx.JSON(http.StatusOK, toQuizResponse(quiz))
}

// CheckEligibility godoc
// @Summary (User) Check attempt eligibility
// @Description Recomputes the student's eligibility for the course quiz from the attempt history.
// @Tags User - Quiz & Attempts
// @Produce json
// @Param course_id path string true "Course ID"
// @Param student_id query string true "Student ID"
// @Success 200 {object} dto.EligibilityDTO
// @Failure 400 {object} dto.ErrorResponse "Missing student_id"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /courses/{course_id}/quiz/eligibility [get]
func (c *QuizUserController) CheckEligibility(ctx *gin.Context) {
	courseID := ctx.Param("course_id")
	studentID := ctx.Query("student_id")
	if studentID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_id query parameter is required"})
		return
	}

	quiz, err := c.orchestrator.GetQuizForCourse(courseID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No quiz available for this course"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve quiz"})
		return
	}

	state, err := c.governor.CheckAttemptEligibility(studentID, courseID, quiz.ID)
	if err != nil {
		log.Error().Err(err).Str("courseId", courseID).Msg("CheckEligibility: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to check eligibility"})
		return
	}

	var resp dto.EligibilityDTO
	copier.Copy(&resp, state)
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary (User) Submit quiz answers
// @Description Records and scores one attempt; returns the result with post-submission eligibility.
// @Tags User - Quiz & Attempts
// @Accept json
// @Produce json
// @Param course_id path string true "Course ID"
// @Param submission body dto.SubmitAttemptRequest true "Answers keyed by question number"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 403 {object} dto.ErrorResponse "Attempt not allowed"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /courses/{course_id}/quiz/attempts [post]
func (c *QuizUserController) SubmitAttempt(ctx *gin.Context) {
	courseID := ctx.Param("course_id")

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission", Details: []string{err.Error()}})
		return
	}

	result, err := c.governor.RecordAttempt(req.StudentID, courseID, req.QuizID, req.Answers, req.TimeSpentSeconds)
	if err != nil {
		var ineligible *service.IneligibleError
		if errors.As(err, &ineligible) {
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: ineligible.Reason})
			return
		}
		if errors.Is(err, service.ErrQuizNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Quiz not found"})
			return
		}
		log.Error().Err(err).Str("courseId", courseID).Msg("SubmitAttempt: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to record attempt"})
		return
	}

	var resp dto.AttemptResultDTO
	copier.Copy(&resp, result)
	ctx.JSON(http.StatusOK, resp)
}

// GetAttemptHistory godoc
// @Summary (User) List a student's attempts for a quiz
// @Tags User - Quiz & Attempts
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param student_id query string true "Student ID"
// @Success 200 {object} dto.AttemptHistoryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing student_id"
// @Router /quizzes/{quiz_id}/attempts [get]
func (c *QuizUserController) GetAttemptHistory(ctx *gin.Context) {
	quizID := ctx.Param("quiz_id")
	studentID := ctx.Query("student_id")
	if studentID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_id query parameter is required"})
		return
	}

	history, err := c.governor.GetAttemptHistory(studentID, quizID)
	if err != nil {
		log.Error().Err(err).Str("quizId", quizID).Msg("GetAttemptHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load attempt history"})
		return
	}

	resp := dto.AttemptHistoryDTO{Attempts: make([]dto.AttemptSummaryDTO, 0, len(history.Attempts))}
	copier.Copy(&resp.Eligibility, &history.Eligibility)
	for _, a := range history.Attempts {
		var summary dto.AttemptSummaryDTO
		copier.Copy(&summary, &a)
		resp.Attempts = append(resp.Attempts, summary)
	}
	ctx.JSON(http.StatusOK, resp)
}

// toQuizResponse strips answer keys before the quiz leaves the server.
func toQuizResponse(quiz *model.Quiz) dto.QuizResponseDTO {
	resp := dto.QuizResponseDTO{
		ID:               quiz.ID,
		CourseID:         quiz.CourseID,
		WeekNumber:       quiz.WeekNumber,
		Title:            quiz.Title,
		Topic:            quiz.Topic,
		Description:      quiz.Description,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		TotalMarks:       quiz.TotalMarks,
		TotalQuestions:   quiz.TotalQuestions,
		Status:           quiz.Status,
		AIGenerated:      quiz.AIGenerated,
		CreatedAt:        quiz.CreatedAt,
	}
	for _, q := range quiz.Questions {
		item := dto.QuizQuestionDTO{
			QuestionNumber: q.QuestionNumber,
			Type:           q.Type,
			QuestionText:   q.QuestionText,
			Marks:          q.Marks,
			Difficulty:     q.Difficulty,
			RequiresReview: q.RequiresReview,
		}
		if len(q.Options) > 0 {
			var options []string
			if err := json.Unmarshal(q.Options, &options); err == nil {
				item.Options = options
			}
		}
		resp.Questions = append(resp.Questions, item)
	}
	return resp
}
