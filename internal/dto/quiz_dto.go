package dto

import "time"

// GenerateQuizResponse reports the outcome of a generation request.
type GenerateQuizResponse struct {
	Success        bool   `json:"success"`
	QuizID         string `json:"quiz_id"`
	TotalQuestions int    `json:"total_questions"`
	TotalMarks     int    `json:"total_marks"`
	Message        string `json:"message"`
}

// QuizQuestionDTO is one question as shown to a student. The correct option
// and expected answers are never included.
type QuizQuestionDTO struct {
	QuestionNumber int      `json:"question_number"`
	Type           string   `json:"type"`
	QuestionText   string   `json:"question_text"`
	Options        []string `json:"options,omitempty"`
	Marks          int      `json:"marks"`
	Difficulty     string   `json:"difficulty,omitempty"`
	RequiresReview bool     `json:"requires_review"`
}

// QuizResponseDTO is the student-facing quiz shape.
type QuizResponseDTO struct {
	ID               string            `json:"id"`
	CourseID         string            `json:"course_id"`
	WeekNumber       int               `json:"week_number"`
	Title            string            `json:"title"`
	Topic            string            `json:"topic,omitempty"`
	Description      string            `json:"description,omitempty"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	TotalMarks       int               `json:"total_marks"`
	TotalQuestions   int               `json:"total_questions"`
	Status           string            `json:"status"`
	AIGenerated      bool              `json:"ai_generated"`
	Questions        []QuizQuestionDTO `json:"questions"`
	CreatedAt        time.Time         `json:"created_at"`
}
