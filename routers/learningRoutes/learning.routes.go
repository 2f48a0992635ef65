package learningRoutes

import (
	controllers "lms/controllers/learning"
	"lms/middleware"
	validators "lms/validators/learning"

	"github.com/gofiber/fiber/v2"
)

// SetupLearningRoutes sets up all student-facing learning routes
func SetupLearningRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/available", middleware.JWTMiddleware, controllers.GetAvailableCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment lifecycle
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.RequestEnrollment(), controllers.RequestEnrollment)

	enrollmentGroup := app.Group("/enrollment")
	enrollmentGroup.Get("/my-courses", middleware.JWTMiddleware, controllers.GetEnrolledCourses)
	enrollmentGroup.Post("/:id/progress", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateProgress)

	// Assessment taking
	assessmentGroup := app.Group("/assessment")
	assessmentGroup.Get("/available", middleware.JWTMiddleware, controllers.GetAvailableAssessments)
	assessmentGroup.Post("/:id/start", middleware.JWTMiddleware, validators.StartAttempt(), controllers.StartAttempt)
	assessmentGroup.Post("/attempt/:attempt_id/answer", middleware.JWTMiddleware, validators.RecordAnswer(), controllers.RecordAnswer)
	assessmentGroup.Post("/attempt/:attempt_id/submit", middleware.JWTMiddleware, validators.SubmitAttempt(), controllers.SubmitAttempt)
	assessmentGroup.Post("/attempt/:attempt_id/cancel", middleware.JWTMiddleware, validators.CancelAttempt(), controllers.CancelAttempt)
	assessmentGroup.Get("/results", middleware.JWTMiddleware, controllers.GetMyResults)

	// Certificates
	certificateGroup := app.Group("/certificate")
	certificateGroup.Post("/:course_id/request", middleware.JWTMiddleware, validators.RequestCertificate(), controllers.RequestCertificate)
	certificateGroup.Get("/my", middleware.JWTMiddleware, controllers.GetMyCertificates)
}
