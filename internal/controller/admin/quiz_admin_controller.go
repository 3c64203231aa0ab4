package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizAdminController struct {
	orchestrator service.QuizOrchestratorService
	governor     service.AttemptGovernorService
}

func NewQuizAdminController(orchestrator service.QuizOrchestratorService, governor service.AttemptGovernorService) *QuizAdminController {
	return &QuizAdminController{orchestrator: orchestrator, governor: governor}
}

// GenerateQuiz godoc
// @Summary (Admin) Generate the final quiz for a course
// @Description Runs the generation pipeline over the course materials. Safe to call repeatedly: an existing quiz is returned unchanged.
// @Tags Admin - Quiz Generation
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 404 {object} dto.ErrorResponse "No materials found"
// @Failure 409 {object} dto.ErrorResponse "Generation already in progress"
// @Failure 422 {object} dto.ErrorResponse "Insufficient questions generated"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses/{course_id}/quiz/generate [post]
func (c *QuizAdminController) GenerateQuiz(ctx *gin.Context) {
	courseID := ctx.Param("course_id")

	result, err := c.orchestrator.GenerateQuizForCourse(ctx.Request.Context(), courseID)
	if err != nil {
		log.Error().Err(err).Str("courseId", courseID).Msg("GenerateQuiz: pipeline failed")
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrNoMaterialsFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrGenerationInProgress):
			status = http.StatusConflict
		case errors.Is(err, service.ErrInsufficientQuestions), errors.Is(err, service.ErrAllExtractionsFailed):
			status = http.StatusUnprocessableEntity
		}
		ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateQuizResponse{
		Success:        true,
		QuizID:         result.QuizID,
		TotalQuestions: result.TotalQuestions,
		TotalMarks:     result.TotalMarks,
		Message:        result.Message,
	})
}

// ResetBlock godoc
// @Summary (Admin) Reset a student's attempt block
// @Description Purges the student's attempt history for a quiz, only allowed once the block window has elapsed.
// @Tags Admin - Quiz Generation
// @Accept json
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param request body dto.ResetBlockRequest true "Student to reset"
// @Success 200 {object} dto.ResetBlockResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/quizzes/{quiz_id}/attempts/reset [post]
func (c *QuizAdminController) ResetBlock(ctx *gin.Context) {
	quizID := ctx.Param("quiz_id")

	var req dto.ResetBlockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.governor.ResetBlockForStudent(req.StudentID, quizID)
	if err != nil {
		log.Error().Err(err).Str("quizId", quizID).Msg("ResetBlock: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reset block", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusOK, dto.ResetBlockResponse{Success: result.Success, Message: result.Message})
}
