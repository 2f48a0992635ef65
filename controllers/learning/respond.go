package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// engine returns the lifecycle engine bound to the global database handle.
func engine() *services.Service {
	return services.New(database.Database.Db)
}

// principal builds the engine caller from the JWT claims set by the
// middleware. A student role is assumed when the token carries none, which
// matches tokens issued before roles existed.
func principal(c *fiber.Ctx) (services.Principal, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return services.Principal{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok || role == "" {
		role = services.RoleStudent
	}
	return services.Principal{UserID: userID, Role: role}, true
}

// serviceError translates engine error kinds into HTTP responses. The
// engine's message is safe to show; internal causes never leak.
func serviceError(c *fiber.Ctx, err error) error {
	message := "Something went wrong!"
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrDuplicate):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidState):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrPreconditionFailed):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrStorageUnavailable):
		status = fiber.StatusServiceUnavailable
		message = "Service temporarily unavailable, please retry!"
	}

	return middleware.JsonResponse(c, status, false, message, nil)
}
