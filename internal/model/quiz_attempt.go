package model

import (
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "InProgress"
	AttemptStatusCompleted  = "Completed"
)

// QuizAttempt is append-only: created once per submission and never mutated by
// anything except the governor that created it.
type QuizAttempt struct {
	ID               string         `gorm:"type:uuid;primarykey" json:"id"`
	QuizID           string         `json:"quiz_id" gorm:"type:uuid;not null;index"`
	StudentID        string         `json:"student_id" gorm:"type:uuid;not null;index"`
	CourseID         string         `json:"course_id" gorm:"type:uuid;not null;index"`
	WeekNumber       int            `json:"week_number" gorm:"not null"`
	Answers          datatypes.JSON `json:"answers"` // question number -> selected option index
	Score            int            `json:"score" gorm:"not null"`
	TotalMarks       int            `json:"total_marks" gorm:"not null"`
	Percentage       int            `json:"percentage" gorm:"not null"`
	Status           string         `json:"status" gorm:"default:'InProgress'"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// EncodeAnswers converts a submitted answer map into the JSON column shape.
// JSON object keys are strings, so question numbers are stringified.
func EncodeAnswers(answers map[int]int) (datatypes.JSON, error) {
	m := make(map[string]int, len(answers))
	for q, opt := range answers {
		m[strconv.Itoa(q)] = opt
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeAnswers is the inverse of EncodeAnswers.
func (a *QuizAttempt) DecodeAnswers() (map[int]int, error) {
	if len(a.Answers) == 0 {
		return map[int]int{}, nil
	}
	var m map[string]int
	if err := json.Unmarshal(a.Answers, &m); err != nil {
		return nil, err
	}
	out := make(map[int]int, len(m))
	for k, v := range m {
		q, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[q] = v
	}
	return out, nil
}
