package controller

import (
	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDeckController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	MarkKnown(ctx *fiber.Ctx) error
	MarkRevise(ctx *fiber.Ctx) error
	Undo(ctx *fiber.Ctx) error
	Promote(ctx *fiber.Ctx) error
}

type deckController struct {
	service service.IDeckService
	auth    fiber.Handler
}

func NewDeckController(service service.IDeckService, auth fiber.Handler) IDeckController {
	return &deckController{service: service, auth: auth}
}

func (c *deckController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/deck/v1")
	h.Use(c.auth)
	h.Get("", c.GetAll)
	h.Post("", c.Save)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Put(":id/reset", c.Reset)
	h.Put(":id/cards/:cardId/known", c.MarkKnown)
	h.Put(":id/cards/:cardId/revise", c.MarkRevise)
	h.Put(":id/cards/:cardId/undo", c.Undo)
	h.Put(":id/cards/:cardId/promote", c.Promote)
}

// identity resolves the caller and the :id path parameter.
func identity(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid deck id")
	}

	return userId, id, nil
}

func (c *deckController) Save(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveDeckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success save deck", res))
}

func (c *deckController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all deck", res))
}

func (c *deckController) Show(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show deck", res))
}

func (c *deckController) Delete(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete deck", nil))
}

func (c *deckController) Reset(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Reset(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset deck", res))
}

func (c *deckController) MarkKnown(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.MarkKnown(ctx.Context(), userId, id, ctx.Params("cardId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark card known", res))
}

func (c *deckController) MarkRevise(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.MarkRevise(ctx.Context(), userId, id, ctx.Params("cardId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark card for revision", res))
}

func (c *deckController) Undo(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.UndoCardRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := c.service.Undo(ctx.Context(), userId, id, ctx.Params("cardId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success undo card", res))
}

func (c *deckController) Promote(ctx *fiber.Ctx) error {
	userId, id, err := identity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Promote(ctx.Context(), userId, id, ctx.Params("cardId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success promote card", res))
}
