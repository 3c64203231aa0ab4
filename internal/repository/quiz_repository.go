package repository

import (
	"errors"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id string) (*model.Quiz, error)
	FindByIDWithQuestions(id string) (*model.Quiz, error)
	// FindActiveAIQuiz returns the active AI-generated quiz for a course and
	// week, or nil when none exists.
	FindActiveAIQuiz(courseID string, weekNumber int) (*model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	// GORM creates the associated questions when quiz.Questions is populated.
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("quiz_questions.question_number ASC")
	}).First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindActiveAIQuiz(courseID string, weekNumber int) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("quiz_questions.question_number ASC")
	}).Where("course_id = ? AND week_number = ? AND ai_generated = ? AND status = ?",
		courseID, weekNumber, true, model.QuizStatusActive).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
