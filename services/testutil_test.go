package services

import (
	"testing"

	"lms/database"
	"lms/models"
	"lms/models/learning"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService opens an isolated in-memory database with the production
// schema and wraps it in an engine.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one shared in-memory database

	database.RunMigrations(db)
	return New(db), db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func asPrincipal(user models.User) Principal {
	return Principal{UserID: user.ID, Role: user.Role}
}

func seedCourse(t *testing.T, svc *Service, staff Principal, title string) *learning.Course {
	t.Helper()

	course, err := svc.CreateCourse(staff, CreateCourseInput{
		Title:         title,
		Description:   "A course used in tests",
		Category:      "engineering",
		Difficulty:    learning.DifficultyBeginner,
		DurationHours: 8,
	})
	require.NoError(t, err)
	return course
}

func seedProfile(name, email string) EnrollmentProfile {
	return EnrollmentProfile{StudentName: name, Email: email}
}

// seedApprovedEnrollment walks the real request/approve flow.
func seedApprovedEnrollment(t *testing.T, svc *Service, staff, student Principal, courseID uint) *learning.Enrollment {
	t.Helper()

	enrollment, err := svc.RequestEnrollment(student, courseID, seedProfile("Test Student", "student@example.com"))
	require.NoError(t, err)

	approved, err := svc.DecideEnrollment(staff, enrollment.ID, true)
	require.NoError(t, err)
	return approved
}

func seedAssessment(t *testing.T, svc *Service, staff Principal, courseID uint, questions []QuestionInput) *learning.Assessment {
	t.Helper()

	assessment, err := svc.CreateAssessment(staff, CreateAssessmentInput{
		CourseID:         courseID,
		Title:            "Checkpoint Quiz",
		Questions:        questions,
		TimeLimitMinutes: 30,
	})
	require.NoError(t, err)
	return assessment
}

func twoQuestionSet() []QuestionInput {
	return []QuestionInput{
		{
			Text:          "Which option is correct?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 1,
			Points:        3,
		},
		{
			Text:          "And this one?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: 0,
			Points:        2,
		},
	}
}
