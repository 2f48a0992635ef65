package controllers

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardOverview returns the headline counters for staff dashboards.
func GetDashboardOverview(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	overview, err := engine().GetOverview(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview fetched successfully!", overview)
}

// GetCoursePerformance returns per-course enrollment and completion numbers.
func GetCoursePerformance(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	performance, err := engine().GetCoursePerformance(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course performance fetched successfully!", performance)
}

// GetStudentEngagement returns per-student activity aggregates.
func GetStudentEngagement(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	engagement, err := engine().GetStudentEngagement(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student engagement fetched successfully!", engagement)
}

// GetRecentActivity returns the latest assessment results, ?limit= capped.
func GetRecentActivity(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 10)
	if limit > 50 {
		limit = 50
	}

	activity, err := engine().GetRecentActivity(p, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent activity fetched successfully!", activity)
}
