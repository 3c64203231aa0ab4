package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	FindByID(id string) (*model.Course, error)
	FindMaterials(courseID string) ([]model.CourseMaterial, error)
	FindAssignments(courseID string) ([]model.Assignment, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindMaterials(courseID string) ([]model.CourseMaterial, error) {
	var materials []model.CourseMaterial
	err := r.db.Where("course_id = ?", courseID).Order("created_at ASC").Find(&materials).Error
	return materials, err
}

func (r *courseRepository) FindAssignments(courseID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.Where("course_id = ?", courseID).Order("created_at ASC").Find(&assignments).Error
	return assignments, err
}
