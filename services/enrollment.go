package services

import (
	"errors"
	"strings"
	"time"

	"lms/models/learning"

	"gorm.io/gorm"
)

// EnrollmentProfile is the application form a student submits with an
// enrollment request.
type EnrollmentProfile struct {
	StudentName       string `json:"student_name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	PreviousEducation string `json:"previous_education"`
	Motivation        string `json:"motivation"`
}

// EnrolledCourse is a catalog course joined with the caller's enrollment state.
type EnrolledCourse struct {
	learning.Course
	EnrollmentID uint       `json:"enrollment_id"`
	Progress     int        `json:"progress"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// EnrollmentView is an enrollment joined with its course title for
// moderator listings.
type EnrollmentView struct {
	learning.Enrollment
	CourseName string `json:"course_name"`
}

// RequestEnrollment creates a pending enrollment for the calling student.
// A pending or approved enrollment for the same course blocks a new request;
// the partial unique index makes the check race-safe.
func (s *Service) RequestEnrollment(p Principal, courseID uint, profile EnrollmentProfile) (*learning.Enrollment, error) {
	const op = "enrollment.Request"

	if strings.TrimSpace(profile.StudentName) == "" || strings.TrimSpace(profile.Email) == "" {
		return nil, newError(op, ErrValidation, "student name and email are required")
	}

	var course learning.Course
	err := s.db.Where("id = ? AND is_active = ? AND is_deleted = ?", courseID, true, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "course not found or not active")
	}
	if err != nil {
		return nil, storageError(op, err)
	}

	var existing learning.Enrollment
	err = s.db.Where(
		"student_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
		p.UserID, courseID, []string{learning.EnrollmentPending, learning.EnrollmentApproved}, false,
	).First(&existing).Error
	if err == nil {
		return nil, newError(op, ErrDuplicate, "an enrollment for this course already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(op, err)
	}

	enrollment := learning.Enrollment{
		StudentID:         p.UserID,
		CourseID:          courseID,
		Status:            learning.EnrollmentPending,
		StudentName:       strings.TrimSpace(profile.StudentName),
		Email:             strings.TrimSpace(profile.Email),
		Phone:             profile.Phone,
		Address:           profile.Address,
		PreviousEducation: profile.PreviousEducation,
		Motivation:        profile.Motivation,
		Progress:          0,
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent race with an identical request
			return nil, newError(op, ErrDuplicate, "an enrollment for this course already exists")
		}
		return nil, storageError(op, err)
	}
	return &enrollment, nil
}

// DecideEnrollment approves or rejects a pending enrollment. Admins and
// teachers only. The status precondition in the update guarantees at most
// one decision lands on any enrollment.
func (s *Service) DecideEnrollment(p Principal, enrollmentID uint, approve bool) (*learning.Enrollment, error) {
	const op = "enrollment.Decide"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can decide enrollments")
	}

	var enrollment learning.Enrollment
	err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "enrollment not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	if enrollment.Status != learning.EnrollmentPending {
		return nil, newError(op, ErrInvalidState, "enrollment has already been decided")
	}

	newStatus := learning.EnrollmentRejected
	if approve {
		newStatus = learning.EnrollmentApproved
	}

	res := s.db.Model(&learning.Enrollment{}).
		Where("id = ? AND status = ?", enrollmentID, learning.EnrollmentPending).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, storageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent decision landed first
		return nil, newError(op, ErrInvalidState, "enrollment has already been decided")
	}

	enrollment.Status = newStatus
	return &enrollment, nil
}

// AdvanceProgress moves an approved enrollment forward by delta percent,
// clamped at 100. Reaching 100 sets the completed flag and timestamp in the
// same update; the progress precondition rejects lost concurrent writes.
func (s *Service) AdvanceProgress(p Principal, enrollmentID uint, delta int) (*learning.Enrollment, error) {
	const op = "enrollment.AdvanceProgress"

	if delta <= 0 {
		return nil, newError(op, ErrValidation, "progress delta must be positive")
	}

	var enrollment learning.Enrollment
	err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "enrollment not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	if enrollment.StudentID != p.UserID {
		return nil, newError(op, ErrUnauthorized, "enrollment belongs to another student")
	}
	if enrollment.Status != learning.EnrollmentApproved {
		return nil, newError(op, ErrInvalidState, "enrollment is not approved")
	}

	now := time.Now()
	newProgress := enrollment.Progress + delta
	if newProgress > 100 {
		newProgress = 100
	}

	updates := map[string]interface{}{
		"progress":      newProgress,
		"last_activity": now,
	}
	if newProgress == 100 && !enrollment.Completed {
		updates["completed"] = true
		updates["completed_at"] = now
	}

	res := s.db.Model(&learning.Enrollment{}).
		Where("id = ? AND status = ? AND progress = ?", enrollmentID, learning.EnrollmentApproved, enrollment.Progress).
		Updates(updates)
	if res.Error != nil {
		return nil, storageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, newError(op, ErrPreconditionFailed, "enrollment changed concurrently, retry")
	}

	enrollment.Progress = newProgress
	enrollment.LastActivity = &now
	if newProgress == 100 && !enrollment.Completed {
		enrollment.Completed = true
		enrollment.CompletedAt = &now
	}
	return &enrollment, nil
}

// ListEnrolledCourses returns the courses the student holds an approved
// enrollment in, joined with progress state.
func (s *Service) ListEnrolledCourses(p Principal) ([]EnrolledCourse, error) {
	const op = "enrollment.ListEnrolled"

	var enrollments []learning.Enrollment
	if err := s.db.Where(
		"student_id = ? AND status = ? AND is_deleted = ?",
		p.UserID, learning.EnrollmentApproved, false,
	).Find(&enrollments).Error; err != nil {
		return nil, storageError(op, err)
	}

	enrolled := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		var course learning.Course
		if err := s.db.Where("id = ? AND is_deleted = ?", e.CourseID, false).First(&course).Error; err != nil {
			continue // course removed since enrollment; skip rather than fail the listing
		}
		enrolled = append(enrolled, EnrolledCourse{
			Course:       course,
			EnrollmentID: e.ID,
			Progress:     e.Progress,
			Completed:    e.Completed,
			CompletedAt:  e.CompletedAt,
		})
	}
	return enrolled, nil
}

// ListAvailableCourses returns active catalog courses the student has no
// enrollment record for at all. Pending and rejected enrollments both hide
// a course, which prevents duplicate requests.
func (s *Service) ListAvailableCourses(p Principal) ([]learning.Course, error) {
	const op = "enrollment.ListAvailable"

	sub := s.db.Model(&learning.Enrollment{}).Select("course_id").
		Where("student_id = ? AND is_deleted = ?", p.UserID, false)

	var courses []learning.Course
	if err := s.db.Where("is_active = ? AND is_deleted = ? AND id NOT IN (?)", true, false, sub).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, storageError(op, err)
	}
	return courses, nil
}

// ListEnrollments returns enrollments for moderators, optionally filtered by
// course (courseID 0 means all), enriched with course titles.
func (s *Service) ListEnrollments(p Principal, courseID uint) ([]EnrollmentView, error) {
	const op = "enrollment.List"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can list enrollments")
	}

	query := s.db.Where("is_deleted = ?", false)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var enrollments []learning.Enrollment
	if err := query.Order("created_at desc").Find(&enrollments).Error; err != nil {
		return nil, storageError(op, err)
	}

	views := make([]EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		view := EnrollmentView{Enrollment: e, CourseName: "Unknown Course"}
		var course learning.Course
		if err := s.db.Select("title").Where("id = ?", e.CourseID).First(&course).Error; err == nil {
			view.CourseName = course.Title
		}
		views = append(views, view)
	}
	return views, nil
}
