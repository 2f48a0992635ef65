package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewCompletionRate(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	course := seedCourse(t, svc, teacher, "Go Basics")

	// Four approved enrollments at 100, 100, 50 and 0 percent
	progresses := []int{100, 100, 50, 0}
	for i, progress := range progresses {
		email := fmt.Sprintf("student%d@example.com", i)
		student := asPrincipal(createUser(t, db, fmt.Sprintf("Student %d", i), email, RoleStudent))
		enrollment := seedApprovedEnrollment(t, svc, teacher, student, course.ID)
		if progress > 0 {
			_, err := svc.AdvanceProgress(student, enrollment.ID, progress)
			require.NoError(t, err)
		}
	}

	overview, err := svc.GetOverview(teacher)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.TotalStudents)
	assert.Equal(t, int64(1), overview.TotalCourses)
	assert.Equal(t, int64(4), overview.TotalEnrollments)
	assert.Equal(t, int64(0), overview.PendingEnrollments)
	assert.Equal(t, int64(2), overview.CompletedEnrollments)
	assert.InDelta(t, 50.0, overview.CompletionRate, 0.001)

	// An undecided enrollment widens the denominator
	pending := asPrincipal(createUser(t, db, "Student 4", "student4@example.com", RoleStudent))
	_, err = svc.RequestEnrollment(pending, course.ID, seedProfile("Student 4", "student4@example.com"))
	require.NoError(t, err)

	overview, err = svc.GetOverview(teacher)
	require.NoError(t, err)
	assert.Equal(t, int64(5), overview.TotalEnrollments)
	assert.Equal(t, int64(1), overview.PendingEnrollments)
	assert.Equal(t, int64(2), overview.CompletedEnrollments)
	assert.InDelta(t, 40.0, overview.CompletionRate, 0.001)
}

func TestAnalyticsModeratorOnly(t *testing.T) {
	svc, db := newTestService(t)
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))

	_, err := svc.GetOverview(student)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetCoursePerformance(student)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetStudentEngagement(student)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetRecentActivity(student, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCoursePerformanceOrdering(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	quiet := seedCourse(t, svc, teacher, "Quiet Course")
	busy := seedCourse(t, svc, teacher, "Busy Course")

	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("student%d@example.com", i)
		student := asPrincipal(createUser(t, db, fmt.Sprintf("Student %d", i), email, RoleStudent))
		enrollment := seedApprovedEnrollment(t, svc, teacher, student, busy.ID)
		if i == 0 {
			_, err := svc.AdvanceProgress(student, enrollment.ID, 100)
			require.NoError(t, err)
		}
	}

	performance, err := svc.GetCoursePerformance(teacher)
	require.NoError(t, err)
	require.Len(t, performance, 2)

	assert.Equal(t, busy.ID, performance[0].CourseID)
	assert.Equal(t, int64(3), performance[0].Enrollments)
	assert.Equal(t, int64(1), performance[0].Completions)
	assert.InDelta(t, 100.0/3, performance[0].CompletionRate, 0.001)

	assert.Equal(t, quiet.ID, performance[1].CourseID)
	assert.Equal(t, int64(0), performance[1].Enrollments)
	assert.Equal(t, 0.0, performance[1].CompletionRate)
}

func TestStudentEngagement(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	course := seedCourse(t, svc, teacher, "Go Basics")
	assessment := seedAssessment(t, svc, teacher, course.ID, twoQuestionSet())

	active := asPrincipal(createUser(t, db, "Active Student", "active@example.com", RoleStudent))
	enrollment := seedApprovedEnrollment(t, svc, teacher, active, course.ID)
	_, err := svc.AdvanceProgress(active, enrollment.ID, 100)
	require.NoError(t, err)

	attempt, err := svc.StartAttempt(active, assessment.ID)
	require.NoError(t, err)
	require.NoError(t, attempt.RecordAnswer(0, 1))
	require.NoError(t, attempt.RecordAnswer(1, 0))
	_, err = svc.SubmitAttempt(attempt)
	require.NoError(t, err)

	// Second student has no user name; the enrollment form name is used
	idle := asPrincipal(createUser(t, db, "", "idle@example.com", RoleStudent))
	idleEnrollment, err := svc.RequestEnrollment(idle, course.ID, seedProfile("Form Name", "idle@example.com"))
	require.NoError(t, err)
	_, err = svc.DecideEnrollment(teacher, idleEnrollment.ID, true)
	require.NoError(t, err)

	engagement, err := svc.GetStudentEngagement(teacher)
	require.NoError(t, err)
	require.Len(t, engagement, 2)

	// Sorted by average progress, most engaged first
	assert.Equal(t, active.UserID, engagement[0].StudentID)
	assert.Equal(t, "Active Student", engagement[0].Name)
	assert.InDelta(t, 100.0, engagement[0].AverageProgress, 0.001)
	assert.Equal(t, 1, engagement[0].CompletedCourses)
	assert.Equal(t, int64(1), engagement[0].AssessmentsTaken)
	assert.InDelta(t, 100.0, engagement[0].AverageScore, 0.001)
	assert.NotNil(t, engagement[0].LastActivity)

	assert.Equal(t, idle.UserID, engagement[1].StudentID)
	assert.Equal(t, "Form Name", engagement[1].Name)
	assert.InDelta(t, 0.0, engagement[1].AverageProgress, 0.001)

	// Enrolling counts as activity even before any progress or results
	require.NotNil(t, engagement[1].LastActivity)
	assert.WithinDuration(t, time.Now(), *engagement[1].LastActivity, time.Minute)
}

func TestRecentActivity(t *testing.T) {
	svc, db := newTestService(t)
	teacher := asPrincipal(createUser(t, db, "Teach", "teach@example.com", RoleTeacher))
	student := asPrincipal(createUser(t, db, "Student", "student@example.com", RoleStudent))
	course := seedCourse(t, svc, teacher, "Go Basics")
	seedApprovedEnrollment(t, svc, teacher, student, course.ID)

	for i := 0; i < 3; i++ {
		assessment := seedAssessment(t, svc, teacher, course.ID, twoQuestionSet())
		attempt, err := svc.StartAttempt(student, assessment.ID)
		require.NoError(t, err)
		_, err = svc.SubmitAttempt(attempt)
		require.NoError(t, err)
	}

	activity, err := svc.GetRecentActivity(teacher, 2)
	require.NoError(t, err)
	assert.Len(t, activity, 2)
	assert.Equal(t, "Checkpoint Quiz", activity[0].AssessmentTitle)
	assert.Equal(t, "Go Basics", activity[0].CourseTitle)
}
