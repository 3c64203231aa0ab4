package model

import (
	"time"

	"gorm.io/gorm"
)

// Course status values. Attempts are only allowed once the course is completed.
const (
	CourseStatusDraft     = "Draft"
	CourseStatusActive    = "Active"
	CourseStatusCompleted = "Completed"
)

// Course is owned by the platform's CRUD layer; it is modeled here so the
// material locator and course status lookups have a store to query.
type Course struct {
	ID          string           `gorm:"type:uuid;primarykey" json:"id"`
	Title       string           `json:"title" gorm:"not null"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status" gorm:"default:'Draft'"`
	Materials   []CourseMaterial `json:"materials,omitempty" gorm:"foreignKey:CourseID"`
	Assignments []Assignment     `json:"assignments,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// CourseMaterial references one uploaded source document. FileRef is either an
// http(s) URL, a path relative to the uploads root, or an absolute path.
type CourseMaterial struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CourseID    string         `json:"course_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	ContentType string         `json:"content_type" gorm:"not null"` // "pdf", "notes", "video", ...
	FileRef     string         `json:"file_ref" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Assignment records may carry an attached file; those attachments are fed to
// the generation pipeline alongside regular materials.
type Assignment struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CourseID      string         `json:"course_id" gorm:"type:uuid;not null;index"`
	Title         string         `json:"title" gorm:"not null"`
	AttachmentRef string         `json:"attachment_ref,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
