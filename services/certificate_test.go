package services

import (
	"strings"
	"testing"

	"lms/models/learning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCourse(t *testing.T, svc *Service, staff, student Principal, courseID uint) {
	t.Helper()

	enrollment := seedApprovedEnrollment(t, svc, staff, student, courseID)
	_, err := svc.AdvanceProgress(student, enrollment.ID, 100)
	require.NoError(t, err)
}

func TestRequestCertificateRequiresCompletion(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")

	// No enrollment at all
	_, err := svc.RequestCertificate(student, course.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Approved but unfinished
	enrollment := seedApprovedEnrollment(t, svc, teacher, student, course.ID)
	_, err = svc.AdvanceProgress(student, enrollment.ID, 50)
	require.NoError(t, err)
	_, err = svc.RequestCertificate(student, course.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.AdvanceProgress(student, enrollment.ID, 50)
	require.NoError(t, err)

	certificate, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.CertificatePending, certificate.Status)
	assert.Equal(t, "Go Basics", certificate.CourseName)
	assert.Equal(t, "Test Student", certificate.StudentName)
	assert.False(t, certificate.RequestedAt.IsZero())
}

func TestRequestCertificateDuplicate(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	completeCourse(t, svc, teacher, student, course.ID)

	first, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)

	// The duplicate still surfaces the open request
	existing, err := svc.RequestCertificate(student, course.ID)
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NotNil(t, existing)
	assert.Equal(t, first.ID, existing.ID)
}

func TestVerifyCertificate(t *testing.T) {
	svc, db := newTestService(t)
	admin := asPrincipal(createUser(t, db, "Admin", "admin@example.com", RoleAdmin))
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	completeCourse(t, svc, teacher, student, course.ID)

	certificate, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)

	// Teachers cannot verify
	_, err = svc.VerifyCertificate(teacher, certificate.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	verified, err := svc.VerifyCertificate(admin, certificate.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.CertificateVerified, verified.Status)
	assert.True(t, strings.HasPrefix(verified.CertificateNumber, "CERT-"))
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, admin.UserID, *verified.VerifiedBy)
	assert.NotNil(t, verified.VerifiedAt)

	// The decision is final
	_, err = svc.VerifyCertificate(admin, certificate.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.RejectCertificate(admin, certificate.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectCertificate(t *testing.T) {
	svc, db := newTestService(t)
	admin := asPrincipal(createUser(t, db, "Admin", "admin@example.com", RoleAdmin))
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	completeCourse(t, svc, teacher, student, course.ID)

	certificate, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)

	_, err = svc.RejectCertificate(admin, certificate.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	rejected, err := svc.RejectCertificate(admin, certificate.ID, "incomplete coursework records")
	require.NoError(t, err)
	assert.Equal(t, learning.CertificateRejected, rejected.Status)
	assert.Equal(t, "incomplete coursework records", rejected.RejectionReason)

	// Rejection frees the student to request again
	retry, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)
	assert.NotEqual(t, certificate.ID, retry.ID)
	assert.Equal(t, learning.CertificatePending, retry.Status)
}

func TestListCertificates(t *testing.T) {
	svc, db := newTestService(t)
	admin := asPrincipal(createUser(t, db, "Admin", "admin@example.com", RoleAdmin))
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	completeCourse(t, svc, teacher, student, course.ID)

	_, err := svc.RequestCertificate(student, course.ID)
	require.NoError(t, err)

	mine, err := svc.ListCertificates(student)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListPendingCertificates(teacher)
	assert.ErrorIs(t, err, ErrUnauthorized)

	pending, err := svc.ListPendingCertificates(admin)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
