package service

import (
	"errors"
	"fmt"
	"time"
)

// Run-level failures of the generation pipeline.
var (
	ErrNoMaterialsFound      = errors.New("no course materials found")
	ErrAllExtractionsFailed  = errors.New("text extraction failed for every material")
	ErrInsufficientQuestions = errors.New("insufficient questions generated")
	ErrGenerationInProgress  = errors.New("quiz generation already in progress for this course")
	ErrQuizNotFound          = errors.New("quiz not found")
)

// Extraction-local failures. The orchestrator downgrades these to a
// per-material skip.
var (
	ErrFileNotFound        = errors.New("file not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// ErrBackendExhausted wraps the last error after the retry budget for one
// chunk is spent. Logged and non-fatal to the run.
var ErrBackendExhausted = errors.New("generation backend exhausted retries")

// IneligibleError is returned by RecordAttempt when the student may not
// attempt the quiz. The reason mirrors what CheckAttemptEligibility reports so
// callers can render it directly.
type IneligibleError struct {
	Reason         string
	BlockExpiresAt *time.Time
}

func (e *IneligibleError) Error() string {
	if e.BlockExpiresAt != nil {
		return fmt.Sprintf("attempt not allowed: %s (until %s)", e.Reason, e.BlockExpiresAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("attempt not allowed: %s", e.Reason)
}
