package learningValidator

import (
	"strings"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(services.CreateAssessmentInput)
		if err := c.BodyParser(input); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(input); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedAssessment", input)
		return c.Next()
	}
}

func StartAttempt() fiber.Handler {
	return paramUint("id", "assessmentID")
}

// attemptID validates the attempt id route parameter as a UUID.
func attemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("attempt_id"))
		if _, err := uuid.Parse(raw); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attempt ID!", nil)
		}

		c.Locals("attemptID", raw)
		return c.Next()
	}
}

func RecordAnswer() fiber.Handler {
	parseID := attemptID()
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionIndex *int `json:"question_index"`
			OptionIndex   *int `json:"option_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.QuestionIndex == nil || *reqData.QuestionIndex < 0 {
			errors["question_index"] = "Question index must be 0 or greater!"
		}
		if reqData.OptionIndex == nil || *reqData.OptionIndex < 0 {
			errors["option_index"] = "Option index must be 0 or greater!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("questionIndex", *reqData.QuestionIndex)
		c.Locals("optionIndex", *reqData.OptionIndex)
		return parseID(c)
	}
}

func SubmitAttempt() fiber.Handler {
	return attemptID()
}

func CancelAttempt() fiber.Handler {
	return attemptID()
}
