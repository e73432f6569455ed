package serverutils

import (
	"errors"

	"ai-flashcard-be/pkg/llm"
	"ai-flashcard-be/pkg/pdf"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the common
// JSON error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

// WriteError writes err with the status StatusFor picks.
func WriteError(ctx *fiber.Ctx, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{
			Success: false,
			Code:    fiber.StatusBadRequest,
			Message: "Validation failed",
			Errors:  validationErr.Fields,
		})
	}

	code, message := StatusFor(err)
	return ctx.Status(code).JSON(ErrorResponse(code, message))
}

// StatusFor maps an error to an HTTP status and a user-facing message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case llm.KindOverloaded, llm.KindExhausted:
			return fiber.StatusServiceUnavailable, genErr.Message
		case llm.KindQuota, llm.KindRateLimit:
			return fiber.StatusTooManyRequests, genErr.Message
		case llm.KindInvalidInput:
			return fiber.StatusUnprocessableEntity, genErr.Message
		default:
			return fiber.StatusBadGateway, genErr.Message
		}
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, pdf.ErrNotPDF), errors.Is(err, pdf.ErrNoExtractableText):
		return fiber.StatusUnprocessableEntity, err.Error()
	}

	return fiber.StatusInternalServerError, err.Error()
}
