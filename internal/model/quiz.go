package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuizStatusActive   = "Active"
	QuizStatusInactive = "Inactive"

	// FinalQuizWeek is the week number reserved for the AI-generated final quiz.
	FinalQuizWeek = 0

	// SystemGeneratorMarker identifies quizzes created by the pipeline rather
	// than a human instructor.
	SystemGeneratorMarker = "system-generator"
)

// Question type values carried from generation through persistence.
const (
	QuestionTypeMCQ         = "mcq"
	QuestionTypeShortAnswer = "short_answer"
	QuestionTypeConceptual  = "conceptual"
)

type Quiz struct {
	ID               string         `gorm:"type:uuid;primarykey" json:"id"`
	CourseID         string         `json:"course_id" gorm:"type:uuid;not null;index:idx_quiz_course_week"`
	WeekNumber       int            `json:"week_number" gorm:"not null;index:idx_quiz_course_week"`
	Title            string         `json:"title" gorm:"not null"`
	Topic            string         `json:"topic,omitempty"`
	Description      string         `json:"description,omitempty"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
	TotalMarks       int            `json:"total_marks" gorm:"not null"`
	TotalQuestions   int            `json:"total_questions" gorm:"not null"`
	Status           string         `json:"status" gorm:"default:'Active'"`
	AIGenerated      bool           `json:"ai_generated" gorm:"not null;default:false"`
	CreatedBy        string         `json:"created_by" gorm:"not null"`
	Questions        []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizQuestion is one persisted question. MCQ rows carry Options and
// CorrectOption; short-answer rows carry ExpectedAnswer; conceptual rows carry
// KeyPoints. Non-MCQ rows are flagged RequiresReview and excluded from
// automatic scoring.
type QuizQuestion struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	QuizID         string         `json:"quiz_id" gorm:"type:uuid;not null;index"`
	QuestionNumber int            `json:"question_number" gorm:"not null"`
	Type           string         `json:"type" gorm:"not null"`
	QuestionText   string         `json:"question_text" gorm:"type:text;not null"`
	Options        datatypes.JSON `json:"options,omitempty"` // 4-element ordered list, mcq only
	CorrectOption  *int           `json:"correct_option,omitempty"` // zero-based index, mcq only
	ExpectedAnswer string         `json:"expected_answer,omitempty" gorm:"type:text"`
	KeyPoints      string         `json:"key_points,omitempty" gorm:"type:text"`
	Marks          int            `json:"marks" gorm:"not null"`
	Difficulty     string         `json:"difficulty,omitempty"`
	Explanation    string         `json:"explanation,omitempty" gorm:"type:text"`
	RequiresReview bool           `json:"requires_review" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Gradable reports whether the question participates in automatic scoring.
func (q *QuizQuestion) Gradable() bool {
	return q.Type == QuestionTypeMCQ && q.CorrectOption != nil
}
