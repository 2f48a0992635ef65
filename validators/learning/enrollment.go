package learningValidator

import (
	"strings"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

func RequestEnrollment() fiber.Handler {
	parseID := paramUint("id", "courseID")
	return func(c *fiber.Ctx) error {
		profile := new(services.EnrollmentProfile)
		if err := c.BodyParser(profile); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(profile); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedEnrollment", profile)
		return parseID(c)
	}
}

func DecideEnrollment() fiber.Handler {
	parseID := paramUint("id", "enrollmentID")
	return func(c *fiber.Ctx) error {
		action := strings.ToLower(strings.TrimSpace(c.Params("action")))
		if action != "approve" && action != "reject" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Action must be approve or reject!", nil)
		}

		c.Locals("approveEnrollment", action == "approve")
		return parseID(c)
	}
}

func UpdateProgress() fiber.Handler {
	parseID := paramUint("id", "enrollmentID")
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Delta *int `json:"delta"`
		})
		// An empty body means the configured default step
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if reqData.Delta != nil {
			if *reqData.Delta <= 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"delta": "Delta must be greater than 0!",
				})
			}
			c.Locals("progressDelta", *reqData.Delta)
		}
		return parseID(c)
	}
}
