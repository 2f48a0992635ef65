package services

import (
	"testing"
	"time"

	"lms/models/learning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestEnrollment(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")

	enrollment, err := svc.RequestEnrollment(student, course.ID, seedProfile("Student", "student@example.com"))
	require.NoError(t, err)
	assert.Equal(t, learning.EnrollmentPending, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)

	// A second request while the first is open is rejected
	_, err = svc.RequestEnrollment(student, course.ID, seedProfile("Student", "student@example.com"))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Unknown course
	_, err = svc.RequestEnrollment(student, 9999, seedProfile("Student", "student@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Missing profile fields
	_, err = svc.RequestEnrollment(student, course.ID, EnrollmentProfile{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecideEnrollment(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")

	enrollment, err := svc.RequestEnrollment(student, course.ID, seedProfile("Student", "student@example.com"))
	require.NoError(t, err)

	// Students cannot decide
	_, err = svc.DecideEnrollment(student, enrollment.ID, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	approved, err := svc.DecideEnrollment(teacher, enrollment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, learning.EnrollmentApproved, approved.Status)

	// The decision is final
	_, err = svc.DecideEnrollment(teacher, enrollment.ID, false)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAdvanceProgress(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	other := asPrincipal(createUser(t, db, "Other", "other@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	enrollment := seedApprovedEnrollment(t, svc, teacher, student, course.ID)

	_, err := svc.AdvanceProgress(student, enrollment.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AdvanceProgress(other, enrollment.ID, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := svc.AdvanceProgress(student, enrollment.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Progress)
	assert.False(t, updated.Completed)
	assert.NotNil(t, updated.LastActivity)

	// Progress clamps at 100 and flips completion exactly once
	updated, err = svc.AdvanceProgress(student, enrollment.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	firstCompletion := *updated.CompletedAt

	updated, err = svc.AdvanceProgress(student, enrollment.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.WithinDuration(t, firstCompletion, *updated.CompletedAt, time.Second)
}

func TestAdvanceProgressRequiresApproval(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")

	enrollment, err := svc.RequestEnrollment(student, course.ID, seedProfile("Student", "student@example.com"))
	require.NoError(t, err)

	_, err = svc.AdvanceProgress(student, enrollment.ID, 10)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListAvailableCourses(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	requested := seedCourse(t, svc, teacher, "Go Basics")
	rejected := seedCourse(t, svc, teacher, "Advanced Go")
	untouched := seedCourse(t, svc, teacher, "Databases")

	_, err := svc.RequestEnrollment(student, requested.ID, seedProfile("Student", "student@example.com"))
	require.NoError(t, err)

	enrollment, err := svc.RequestEnrollment(student, rejected.ID, seedProfile("Student", "student@example.com"))
	require.NoError(t, err)
	_, err = svc.DecideEnrollment(teacher, enrollment.ID, false)
	require.NoError(t, err)

	available, err := svc.ListAvailableCourses(student)
	require.NoError(t, err)

	// Any enrollment record hides the course, rejected included
	require.Len(t, available, 1)
	assert.Equal(t, untouched.ID, available[0].ID)
}

func TestListEnrolledCourses(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	enrollment := seedApprovedEnrollment(t, svc, teacher, student, course.ID)

	_, err := svc.AdvanceProgress(student, enrollment.ID, 40)
	require.NoError(t, err)

	enrolled, err := svc.ListEnrolledCourses(student)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, course.ID, enrolled[0].Course.ID)
	assert.Equal(t, 40, enrolled[0].Progress)
}

func TestListEnrollmentsModeratorOnly(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	seedApprovedEnrollment(t, svc, teacher, student, course.ID)

	_, err := svc.ListEnrollments(student, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	views, err := svc.ListEnrollments(teacher, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Go Basics", views[0].CourseName)
}
