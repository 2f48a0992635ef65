package learningRoutes

import (
	controllers "lms/controllers/learning"
	"lms/middleware"
	"lms/services"
	validators "lms/validators/learning"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminLearningRoutes sets up staff routes for course management,
// enrollment review, certificate review and analytics
func SetupAdminLearningRoutes(app *fiber.App) {
	staffOnly := middleware.RequireRoles(services.RoleAdmin, services.RoleTeacher)
	adminOnly := middleware.RequireRoles(services.RoleAdmin)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware)

	// Course and assessment authoring
	adminGroup.Post("/course/create", staffOnly, validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Post("/assessment/create", staffOnly, validators.CreateAssessment(), controllers.CreateAssessment)

	// Enrollment review
	adminGroup.Get("/enrollments", staffOnly, controllers.GetEnrollments)
	adminGroup.Post("/enrollment/:id/:action", staffOnly, validators.DecideEnrollment(), controllers.DecideEnrollment)

	// Certificate review
	adminGroup.Get("/certificates/pending", adminOnly, controllers.GetPendingCertificates)
	adminGroup.Post("/certificate/:id/verify", adminOnly, validators.VerifyCertificate(), controllers.VerifyCertificate)
	adminGroup.Post("/certificate/:id/reject", adminOnly, validators.RejectCertificate(), controllers.RejectCertificate)

	// Analytics dashboard
	adminGroup.Get("/dashboard/overview", staffOnly, controllers.GetDashboardOverview)
	adminGroup.Get("/dashboard/courses", staffOnly, controllers.GetCoursePerformance)
	adminGroup.Get("/dashboard/students", staffOnly, controllers.GetStudentEngagement)
	adminGroup.Get("/dashboard/activity", staffOnly, controllers.GetRecentActivity)
}
