package controller

import (
	"empathy-chat-be/internal/pkg/serverutils"
	"empathy-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	vectorService service.IVectorService
}

func NewHealthController(vectorService service.IVectorService) IHealthController {
	return &healthController{
		vectorService: vectorService,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	stats, err := c.vectorService.Stats(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, "Vector backend unavailable"))
	}

	return ctx.JSON(serverutils.SuccessResponse("healthy", fiber.Map{
		"service":        "empathy-chat",
		"document_count": stats.DocumentCount,
		"index_status":   stats.Status,
	}))
}
