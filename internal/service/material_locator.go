package service

import (
	"fmt"

	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
)

// Material references one source document the pipeline may read. It is a
// read-only input owned by the course content store.
type Material struct {
	Title       string
	ContentType string
	FileRef     string
	SourceID    string
}

// MaterialLocator lists the generation-worthy documents of a course.
type MaterialLocator interface {
	ListMaterials(courseID string) ([]Material, error)
}

// CourseStatusProvider reports the owning course's current status. Eligibility
// re-reads it on every check.
type CourseStatusProvider interface {
	GetCourseStatus(courseID string) (string, error)
}

// Material content types the pipeline accepts as text sources.
var textualContentTypes = map[string]bool{
	"pdf":   true,
	"notes": true,
}

// CourseContentLocator adapts the course store into both collaborator roles.
type CourseContentLocator struct {
	courseRepo repository.CourseRepository
}

func NewCourseContentLocator(courseRepo repository.CourseRepository) *CourseContentLocator {
	return &CourseContentLocator{courseRepo: courseRepo}
}

// ListMaterials normalizes pdf/notes materials and assignment attachments into
// one uniform list.
func (l *CourseContentLocator) ListMaterials(courseID string) ([]Material, error) {
	materials, err := l.courseRepo.FindMaterials(courseID)
	if err != nil {
		return nil, fmt.Errorf("listing materials for course %s: %w", courseID, err)
	}
	assignments, err := l.courseRepo.FindAssignments(courseID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments for course %s: %w", courseID, err)
	}

	var out []Material
	for _, m := range materials {
		if !textualContentTypes[m.ContentType] {
			continue
		}
		out = append(out, Material{
			Title:       m.Title,
			ContentType: m.ContentType,
			FileRef:     m.FileRef,
			SourceID:    fmt.Sprintf("material-%d", m.ID),
		})
	}
	for _, a := range assignments {
		if a.AttachmentRef == "" {
			continue
		}
		out = append(out, Material{
			Title:       a.Title,
			ContentType: "assignment",
			FileRef:     a.AttachmentRef,
			SourceID:    fmt.Sprintf("assignment-%d", a.ID),
		})
	}

	log.Info().Str("courseId", courseID).Int("materials", len(out)).Msg("Located course materials")
	return out, nil
}

func (l *CourseContentLocator) GetCourseStatus(courseID string) (string, error) {
	course, err := l.courseRepo.FindByID(courseID)
	if err != nil {
		return "", fmt.Errorf("looking up course %s: %w", courseID, err)
	}
	return course.Status, nil
}
