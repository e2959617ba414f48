package controller

import (
	"empathy-chat-be/internal/dto"
	"empathy-chat-be/internal/pkg/serverutils"
	"empathy-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVectorController interface {
	RegisterRoutes(r fiber.Router)
	AddDocuments(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type vectorController struct {
	vectorService service.IVectorService
}

func NewVectorController(vectorService service.IVectorService) IVectorController {
	return &vectorController{
		vectorService: vectorService,
	}
}

func (c *vectorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vector/v1")
	h.Post("documents", c.AddDocuments)
	h.Post("search", c.Search)
	h.Delete("documents", c.Delete)
	h.Get("stats", c.Stats)
}

func (c *vectorController) AddDocuments(ctx *fiber.Ctx) error {
	var req dto.AddDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.vectorService.EnqueueDocuments(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Batch enqueued", res))
}

func (c *vectorController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.vectorService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *vectorController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if !req.All && len(req.Ids) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Provide ids or set all=true"))
	}

	if err := c.vectorService.Delete(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete documents", nil))
}

func (c *vectorController) Stats(ctx *fiber.Ctx) error {
	res, err := c.vectorService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
