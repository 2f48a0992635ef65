package learningValidator

import (
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(services.CreateCourseInput)
		if err := c.BodyParser(input); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(input); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCourse", input)
		return c.Next()
	}
}

func GetCourseDetail() fiber.Handler {
	return paramUint("id", "courseID")
}
