package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuizAttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	// FindByStudentAndQuiz returns the student's attempts for a quiz, most
	// recent submission first.
	FindByStudentAndQuiz(studentID, quizID string) ([]model.QuizAttempt, error)
	DeleteByStudentAndQuiz(studentID, quizID string) error
}

type quizAttemptRepository struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: db}
}

func (r *quizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *quizAttemptRepository) FindByStudentAndQuiz(studentID, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("submitted_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepository) DeleteByStudentAndQuiz(studentID, quizID string) error {
	return r.db.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Delete(&model.QuizAttempt{}).Error
}
