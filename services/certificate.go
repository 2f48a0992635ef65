package services

import (
	"errors"
	"strings"
	"time"

	"lms/models/learning"
	"lms/utils"

	"gorm.io/gorm"
)

// RequestCertificate opens a certificate request for a completed course.
// Denormalizes student and course names so the record survives later edits.
// An open (pending or verified) request for the same course is returned
// alongside ErrDuplicate so the caller can show it.
func (s *Service) RequestCertificate(p Principal, courseID uint) (*learning.Certificate, error) {
	const op = "certificate.Request"

	var enrollment learning.Enrollment
	err := s.db.Where(
		"student_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		p.UserID, courseID, learning.EnrollmentApproved, false,
	).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrInvalidState, "no approved enrollment for this course")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	if !enrollment.Completed {
		return nil, newError(op, ErrInvalidState, "course has not been completed")
	}

	existing, err := s.openCertificate(p.UserID, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if existing != nil {
		return existing, newError(op, ErrDuplicate, "a certificate request for this course already exists")
	}

	var course learning.Course
	courseName := "Unknown Course"
	if err := s.db.Select("title").Where("id = ?", courseID).First(&course).Error; err == nil {
		courseName = course.Title
	}

	completedAt := time.Now()
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}

	certificate := learning.Certificate{
		StudentID:    p.UserID,
		CourseID:     courseID,
		StudentName:  enrollment.StudentName,
		StudentEmail: enrollment.Email,
		CourseName:   courseName,
		CompletedAt:  completedAt,
		RequestedAt:  time.Now(),
		Status:       learning.CertificatePending,
	}

	if err := s.db.Create(&certificate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent race; surface the record that won
			if winner, ferr := s.openCertificate(p.UserID, courseID); ferr == nil && winner != nil {
				return winner, newError(op, ErrDuplicate, "a certificate request for this course already exists")
			}
			return nil, newError(op, ErrDuplicate, "a certificate request for this course already exists")
		}
		return nil, storageError(op, err)
	}
	return &certificate, nil
}

// openCertificate finds a pending or verified certificate for the pair, or
// nil when only rejected ones exist. Rejected requests never block a retry.
func (s *Service) openCertificate(studentID, courseID uint) (*learning.Certificate, error) {
	var certificate learning.Certificate
	err := s.db.Where(
		"student_id = ? AND course_id = ? AND status IN ? AND is_deleted = ?",
		studentID, courseID, []string{learning.CertificatePending, learning.CertificateVerified}, false,
	).First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &certificate, nil
}

// VerifyCertificate approves a pending certificate request and issues a
// certificate number. Admins only. The status precondition guarantees the
// number is assigned exactly once.
func (s *Service) VerifyCertificate(p Principal, certificateID uint) (*learning.Certificate, error) {
	const op = "certificate.Verify"

	if !p.IsAdmin() {
		return nil, newError(op, ErrUnauthorized, "only admins can verify certificates")
	}

	var certificate learning.Certificate
	err := s.db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "certificate request not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	if certificate.Status != learning.CertificatePending {
		return nil, newError(op, ErrInvalidState, "certificate request has already been decided")
	}

	now := time.Now()
	number := utils.GenerateCertificateNumber()

	res := s.db.Model(&learning.Certificate{}).
		Where("id = ? AND status = ?", certificateID, learning.CertificatePending).
		Updates(map[string]interface{}{
			"status":             learning.CertificateVerified,
			"certificate_number": number,
			"verified_by":        p.UserID,
			"verified_at":        now,
		})
	if res.Error != nil {
		return nil, storageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, newError(op, ErrInvalidState, "certificate request has already been decided")
	}

	certificate.Status = learning.CertificateVerified
	certificate.CertificateNumber = number
	certificate.VerifiedBy = &p.UserID
	certificate.VerifiedAt = &now
	return &certificate, nil
}

// RejectCertificate declines a pending certificate request with a reason.
// Admins only. Rejection frees the student to request again.
func (s *Service) RejectCertificate(p Principal, certificateID uint, reason string) (*learning.Certificate, error) {
	const op = "certificate.Reject"

	if !p.IsAdmin() {
		return nil, newError(op, ErrUnauthorized, "only admins can reject certificates")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, newError(op, ErrValidation, "a rejection reason is required")
	}

	var certificate learning.Certificate
	err := s.db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "certificate request not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	if certificate.Status != learning.CertificatePending {
		return nil, newError(op, ErrInvalidState, "certificate request has already been decided")
	}

	res := s.db.Model(&learning.Certificate{}).
		Where("id = ? AND status = ?", certificateID, learning.CertificatePending).
		Updates(map[string]interface{}{
			"status":           learning.CertificateRejected,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return nil, storageError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, newError(op, ErrInvalidState, "certificate request has already been decided")
	}

	certificate.Status = learning.CertificateRejected
	certificate.RejectionReason = reason
	return &certificate, nil
}

// ListCertificates returns the caller's certificate requests, newest first.
func (s *Service) ListCertificates(p Principal) ([]learning.Certificate, error) {
	const op = "certificate.List"

	var certificates []learning.Certificate
	if err := s.db.Where("student_id = ? AND is_deleted = ?", p.UserID, false).
		Order("requested_at desc").Find(&certificates).Error; err != nil {
		return nil, storageError(op, err)
	}
	return certificates, nil
}

// ListPendingCertificates returns all open requests for admin review.
func (s *Service) ListPendingCertificates(p Principal) ([]learning.Certificate, error) {
	const op = "certificate.ListPending"

	if !p.IsAdmin() {
		return nil, newError(op, ErrUnauthorized, "only admins can review certificate requests")
	}

	var certificates []learning.Certificate
	if err := s.db.Where("status = ? AND is_deleted = ?", learning.CertificatePending, false).
		Order("requested_at asc").Find(&certificates).Error; err != nil {
		return nil, storageError(op, err)
	}
	return certificates, nil
}
