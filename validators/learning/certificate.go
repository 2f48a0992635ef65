package learningValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func RequestCertificate() fiber.Handler {
	return paramUint("course_id", "courseID")
}

func VerifyCertificate() fiber.Handler {
	return paramUint("id", "certificateID")
}

func RejectCertificate() fiber.Handler {
	parseID := paramUint("id", "certificateID")
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reason := strings.TrimSpace(reqData.Reason)
		if reason == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"reason": "Rejection reason is required!",
			})
		}

		c.Locals("rejectionReason", reason)
		return parseID(c)
	}
}
