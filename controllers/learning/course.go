package controllers

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse registers a new catalog course. Admin and teacher only.
func CreateCourse(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	input, ok := c.Locals("validatedCourse").(*services.CreateCourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course payload!", nil)
	}

	course, err := engine().CreateCourse(p, *input)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// GetAllCourses lists every active course in the catalog.
func GetAllCourses(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := engine().ListCourses(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetails returns a single course with its materials.
func GetCourseDetails(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	course, err := engine().GetCourse(p, courseID)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// GetAvailableCourses lists active courses the student has not requested yet.
func GetAvailableCourses(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courses, err := engine().ListAvailableCourses(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Available courses fetched successfully!", courses)
}
