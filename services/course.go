package services

import (
	"errors"
	"strings"

	"lms/models/learning"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateCourseInput carries the fields of a new course. Materials become
// immutable once the course is created.
type CreateCourseInput struct {
	Title         string              `json:"title" validate:"required,min=3"`
	Description   string              `json:"description" validate:"required,min=5"`
	Category      string              `json:"category" validate:"required"`
	Difficulty    string              `json:"difficulty" validate:"required"`
	DurationHours int                 `json:"duration_hours" validate:"required,min=1"`
	Materials     []learning.Material `json:"materials"`
}

// CreateCourse registers a new course in the catalog. Admins and teachers only.
func (s *Service) CreateCourse(p Principal, input CreateCourseInput) (*learning.Course, error) {
	const op = "course.Create"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can create courses")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, newError(op, ErrValidation, "title, description and category are required")
	}
	if !learning.ValidDifficulty(input.Difficulty) {
		return nil, newError(op, ErrValidation, "unknown difficulty level")
	}
	if input.DurationHours < 1 {
		return nil, newError(op, ErrValidation, "duration must be at least one hour")
	}

	materials := make([]learning.Material, 0, len(input.Materials))
	for _, m := range input.Materials {
		if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.URL) == "" {
			return nil, newError(op, ErrValidation, "material title and url are required")
		}
		if !learning.ValidMaterialType(m.Type) {
			return nil, newError(op, ErrValidation, "unknown material type")
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		materials = append(materials, m)
	}

	course := learning.Course{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Category:      strings.TrimSpace(input.Category),
		Difficulty:    input.Difficulty,
		DurationHours: input.DurationHours,
		Materials:     datatypes.NewJSONType(materials),
		CreatedBy:     p.UserID,
		IsActive:      true,
	}

	if err := s.db.Create(&course).Error; err != nil {
		return nil, storageError(op, err)
	}
	return &course, nil
}

// ListCourses returns all active catalog courses.
func (s *Service) ListCourses(p Principal) ([]learning.Course, error) {
	const op = "course.List"

	var courses []learning.Course
	if err := s.db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, storageError(op, err)
	}
	return courses, nil
}

// GetCourse fetches a single course by id.
func (s *Service) GetCourse(p Principal, courseID uint) (*learning.Course, error) {
	const op = "course.Get"

	var course learning.Course
	err := s.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "course not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	return &course, nil
}
