package controller

import (
	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITutorController interface {
	RegisterRoutes(r fiber.Router)
	Explain(ctx *fiber.Ctx) error
	StartSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type tutorController struct {
	service service.ITutorService
	auth    fiber.Handler
}

func NewTutorController(service service.ITutorService, auth fiber.Handler) ITutorController {
	return &tutorController{service: service, auth: auth}
}

func (c *tutorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tutor/v1")
	h.Use(c.auth)
	h.Post("explain", c.Explain)
	h.Post("sessions", c.StartSession)
	h.Post("sessions/:id/messages", c.SendMessage)
}

func (c *tutorController) Explain(ctx *fiber.Ctx) error {
	var req dto.ExplainCardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Explain(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success explain card", res))
}

func (c *tutorController) StartSession(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartTutorSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StartChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start tutor session", res))
}

func (c *tutorController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.TutorChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.SessionId = sessionId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send tutor message", res))
}
