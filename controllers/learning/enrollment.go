package controllers

import (
	"lms/config"
	"lms/middleware"
	"lms/models/learning"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestEnrollment submits an enrollment application for a course.
func RequestEnrollment(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	profile, ok := c.Locals("validatedEnrollment").(*services.EnrollmentProfile)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment payload!", nil)
	}

	enrollment, err := engine().RequestEnrollment(p, courseID, *profile)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment requested successfully!", enrollment)
}

// DecideEnrollment approves or rejects a pending enrollment. Admin and
// teacher only. The decision email goes out after the write commits.
func DecideEnrollment(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)
	approve := c.Locals("approveEnrollment").(bool)

	enrollment, err := engine().DecideEnrollment(p, enrollmentID, approve)
	if err != nil {
		return serviceError(c, err)
	}

	notifyEnrollmentDecision(enrollment)

	message := "Enrollment rejected!"
	if approve {
		message = "Enrollment approved!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, enrollment)
}

func notifyEnrollmentDecision(enrollment *learning.Enrollment) {
	if enrollment.Email == "" {
		return
	}
	courseName := "your course"
	if course, err := engine().GetCourse(services.Principal{Role: services.RoleAdmin}, enrollment.CourseID); err == nil {
		courseName = course.Title
	}
	if enrollment.Status == learning.EnrollmentApproved {
		utils.SendEnrollmentApprovedEmail(enrollment.Email, enrollment.StudentName, courseName)
	} else {
		utils.SendEnrollmentRejectedEmail(enrollment.Email, enrollment.StudentName, courseName)
	}
}

// UpdateProgress advances the caller's progress in an approved enrollment.
func UpdateProgress(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)
	delta, ok := c.Locals("progressDelta").(int)
	if !ok || delta == 0 {
		delta = config.AppConfig.ProgressStep
	}

	enrollment, err := engine().AdvanceProgress(p, enrollmentID, delta)
	if err != nil {
		return serviceError(c, err)
	}

	message := "Progress updated successfully!"
	if enrollment.Completed {
		message = "Course completed, congratulations!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, enrollment)
}

// GetEnrolledCourses lists the caller's approved courses with progress.
func GetEnrolledCourses(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := engine().ListEnrolledCourses(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", courses)
}

// GetEnrollments lists enrollments for moderators, optionally filtered by
// course via ?course_id=.
func GetEnrollments(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := uint(c.QueryInt("course_id", 0))

	enrollments, err := engine().ListEnrollments(p, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
