package controller

import (
	"encoding/json"
	"io"

	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFlashcardController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	GeneratePDF(ctx *fiber.Ctx) error
	CacheStats(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	ListDocumentChunks(ctx *fiber.Ctx) error
	ClearDocumentChunks(ctx *fiber.Ctx) error
}

type flashcardController struct {
	service     service.IFlashcardService
	auth        fiber.Handler
	maxUploadMB int
}

func NewFlashcardController(service service.IFlashcardService, auth fiber.Handler, maxUploadMB int) IFlashcardController {
	return &flashcardController{service: service, auth: auth, maxUploadMB: maxUploadMB}
}

func (c *flashcardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/flashcard/v1")
	h.Use(c.auth)
	h.Post("generate", c.Generate)
	h.Post("generate/pdf", c.GeneratePDF)
	h.Get("cache/stats", c.CacheStats)
	h.Delete("cache", c.ClearCache)
	h.Get("documents/:documentId/chunks", c.ListDocumentChunks)
	h.Delete("documents/:documentId/chunks", c.ClearDocumentChunks)
}

func (c *flashcardController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateFlashcardsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate flashcards", res))
}

func (c *flashcardController) GeneratePDF(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if c.maxUploadMB > 0 && fileHeader.Size > int64(c.maxUploadMB)<<20 {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	req := dto.GeneratePDFRequest{
		FileName: fileHeader.Filename,
		Data:     data,
		ClientId: ctx.FormValue("client_id"),
	}

	if raw := ctx.FormValue("filters"); raw != "" {
		var filters entity.Filters
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "filters must be valid JSON")
		}
		req.Filters = &filters
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GeneratePDF(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate flashcards from pdf", res))
}

func (c *flashcardController) CacheStats(ctx *fiber.Ctx) error {
	res, err := c.service.CacheStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get cache stats", res))
}

func (c *flashcardController) ClearCache(ctx *fiber.Ctx) error {
	if err := c.service.ClearCache(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear cache", nil))
}

func (c *flashcardController) ListDocumentChunks(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListDocumentChunks(ctx.Context(), userId, ctx.Params("documentId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document chunks", res))
}

func (c *flashcardController) ClearDocumentChunks(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ClearDocumentChunks(ctx.Context(), userId, ctx.Params("documentId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear document chunks", res))
}
