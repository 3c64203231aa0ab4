package dto

import "time"

// SubmitAttemptRequest carries one full quiz submission. Answers map
// question numbers to selected option indexes (zero-based).
type SubmitAttemptRequest struct {
	StudentID        string      `json:"student_id" binding:"required,uuid"`
	QuizID           string      `json:"quiz_id" binding:"required,uuid"`
	Answers          map[int]int `json:"answers" binding:"required"`
	TimeSpentSeconds int         `json:"time_spent_seconds"`
}

// EligibilityDTO mirrors the governor's derived eligibility state.
type EligibilityDTO struct {
	CanAttempt        bool       `json:"can_attempt"`
	RemainingAttempts int        `json:"remaining_attempts"`
	TotalAttempts     int        `json:"total_attempts"`
	IsBlocked         bool       `json:"is_blocked"`
	BlockReason       string     `json:"block_reason,omitempty"`
	BlockExpiresAt    *time.Time `json:"block_expires_at,omitempty"`
	IsPassed          bool       `json:"is_passed"`
	BestScore         int        `json:"best_score"`
}

// AttemptResultDTO is returned right after a submission is recorded.
type AttemptResultDTO struct {
	AttemptID         string     `json:"attempt_id"`
	Score             int        `json:"score"`
	TotalMarks        int        `json:"total_marks"`
	Percentage        int        `json:"percentage"`
	IsPassed          bool       `json:"is_passed"`
	RemainingAttempts int        `json:"remaining_attempts"`
	IsBlocked         bool       `json:"is_blocked"`
	BlockReason       string     `json:"block_reason,omitempty"`
	BlockExpiresAt    *time.Time `json:"block_expires_at,omitempty"`
}

// AttemptSummaryDTO is one row of a student's attempt history.
type AttemptSummaryDTO struct {
	ID               string    `json:"id"`
	QuizID           string    `json:"quiz_id"`
	Score            int       `json:"score"`
	TotalMarks       int       `json:"total_marks"`
	Percentage       int       `json:"percentage"`
	Status           string    `json:"status"`
	SubmittedAt      time.Time `json:"submitted_at"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
}

// AttemptHistoryDTO pairs the history with the current eligibility.
type AttemptHistoryDTO struct {
	Attempts    []AttemptSummaryDTO `json:"attempts"`
	Eligibility EligibilityDTO      `json:"eligibility"`
}

// ResetBlockRequest identifies the student whose block should be lifted.
type ResetBlockRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// ResetBlockResponse reports whether the reset was applied.
type ResetBlockResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
