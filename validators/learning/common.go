package learningValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationErrors flattens validator.v10 failures into a field -> message
// map for the standard validation response.
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errors[field] = field + " is required!"
		case "email":
			errors[field] = "Invalid email address!"
		case "min":
			errors[field] = field + " must be at least " + fe.Param() + "!"
		case "max":
			errors[field] = field + " must be at most " + fe.Param() + "!"
		case "len":
			errors[field] = field + " must have exactly " + fe.Param() + " items!"
		default:
			errors[field] = field + " is invalid!"
		}
	}
	return errors
}

// paramUint parses a positive integer route parameter into Locals under key.
func paramUint(param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing "+param+" parameter!", nil)
		}

		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+" parameter!", nil)
		}

		c.Locals(key, uint(id))
		return c.Next()
	}
}
