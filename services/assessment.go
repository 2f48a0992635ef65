package services

import (
	"errors"
	"strings"

	"lms/models/learning"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionInput is one multiple-choice question of a new assessment.
type QuestionInput struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4"`
	CorrectOption int      `json:"correct_option" validate:"min=0,max=3"`
	Points        int      `json:"points" validate:"min=1"`
}

// CreateAssessmentInput carries the fields of a new assessment.
type CreateAssessmentInput struct {
	CourseID         uint            `json:"course_id" validate:"required"`
	Title            string          `json:"title" validate:"required,min=3"`
	Description      string          `json:"description"`
	Questions        []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	TimeLimitMinutes int             `json:"time_limit_minutes" validate:"required,min=1"`
}

// ResultView is an assessment result enriched with titles for display.
// Titles degrade to sentinel labels when the referenced records are gone.
type ResultView struct {
	learning.AssessmentResult
	AssessmentTitle string `json:"assessment_title"`
	CourseTitle     string `json:"course_title"`
}

// CreateAssessment defines a timed assessment for a course. Admins and
// teachers only. Assessments are immutable after creation; total points are
// computed here, never trusted from the caller.
func (s *Service) CreateAssessment(p Principal, input CreateAssessmentInput) (*learning.Assessment, error) {
	const op = "assessment.Create"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can create assessments")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, newError(op, ErrValidation, "title is required")
	}
	if input.TimeLimitMinutes < 1 {
		return nil, newError(op, ErrValidation, "time limit must be at least one minute")
	}
	if len(input.Questions) == 0 {
		return nil, newError(op, ErrValidation, "at least one question is required")
	}

	var course learning.Course
	err := s.db.Where("id = ? AND is_deleted = ?", input.CourseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "course not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}

	totalPoints := 0
	questions := make([]learning.Question, 0, len(input.Questions))
	for _, q := range input.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, newError(op, ErrValidation, "question text is required")
		}
		if len(q.Options) != learning.OptionsPerQuestion {
			return nil, newError(op, ErrValidation, "each question needs exactly four options")
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return nil, newError(op, ErrValidation, "question options cannot be empty")
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= learning.OptionsPerQuestion {
			return nil, newError(op, ErrValidation, "correct option index out of range")
		}
		if q.Points < 1 {
			return nil, newError(op, ErrValidation, "question points must be positive")
		}
		totalPoints += q.Points
		questions = append(questions, learning.Question{
			Text:          strings.TrimSpace(q.Text),
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Points:        q.Points,
		})
	}

	assessment := learning.Assessment{
		CourseID:         input.CourseID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Questions:        datatypes.NewJSONType(questions),
		TimeLimitMinutes: input.TimeLimitMinutes,
		TotalPoints:      totalPoints,
		CreatedBy:        p.UserID,
		IsActive:         true,
	}

	if err := s.db.Create(&assessment).Error; err != nil {
		return nil, storageError(op, err)
	}
	return &assessment, nil
}

// GetAssessment fetches a single active assessment by id.
func (s *Service) GetAssessment(p Principal, assessmentID uint) (*learning.Assessment, error) {
	const op = "assessment.Get"

	var assessment learning.Assessment
	err := s.db.Where("id = ? AND is_active = ? AND is_deleted = ?", assessmentID, true, false).First(&assessment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "assessment not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	return &assessment, nil
}

// ListAvailableAssessments returns assessments the student may still take:
// course approved, no result recorded yet.
func (s *Service) ListAvailableAssessments(p Principal) ([]learning.Assessment, error) {
	const op = "assessment.ListAvailable"

	enrolled := s.db.Model(&learning.Enrollment{}).Select("course_id").
		Where("student_id = ? AND status = ? AND is_deleted = ?", p.UserID, learning.EnrollmentApproved, false)
	taken := s.db.Model(&learning.AssessmentResult{}).Select("assessment_id").
		Where("student_id = ?", p.UserID)

	var assessments []learning.Assessment
	if err := s.db.Where(
		"is_active = ? AND is_deleted = ? AND course_id IN (?) AND id NOT IN (?)",
		true, false, enrolled, taken,
	).Order("created_at desc").Find(&assessments).Error; err != nil {
		return nil, storageError(op, err)
	}
	return assessments, nil
}

// ListResults returns the student's assessment results enriched with
// assessment and course titles, best effort.
func (s *Service) ListResults(p Principal) ([]ResultView, error) {
	const op = "assessment.ListResults"

	var results []learning.AssessmentResult
	if err := s.db.Where("student_id = ?", p.UserID).
		Order("completed_at desc").Find(&results).Error; err != nil {
		return nil, storageError(op, err)
	}
	return s.enrichResults(results), nil
}

func (s *Service) enrichResults(results []learning.AssessmentResult) []ResultView {
	views := make([]ResultView, 0, len(results))
	for _, r := range results {
		view := ResultView{
			AssessmentResult: r,
			AssessmentTitle:  "Unknown Assessment",
			CourseTitle:      "Unknown Course",
		}
		var assessment learning.Assessment
		if err := s.db.Select("title").Where("id = ?", r.AssessmentID).First(&assessment).Error; err == nil {
			view.AssessmentTitle = assessment.Title
		}
		var course learning.Course
		if err := s.db.Select("title").Where("id = ?", r.CourseID).First(&course).Error; err == nil {
			view.CourseTitle = course.Title
		}
		views = append(views, view)
	}
	return views
}

// scoreAnswers awards each question's points when the selected option matches
// the correct one. Missing answers score zero.
func scoreAnswers(questions []learning.Question, answers map[int]int) int {
	score := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.CorrectOption {
			score += q.Points
		}
	}
	return score
}
