package controller

import (
	"errors"
	"strconv"

	"empathy-chat-be/internal/dto"
	"empathy-chat-be/internal/pkg/serverutils"
	"empathy-chat-be/internal/service"
	"empathy-chat-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	SendDebug(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Trace(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Send)
	h.Post("debug", c.SendDebug)
	h.Get(":sessionId/history", c.History)
	h.Get(":sessionId/trace", c.Trace)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), req)
	if err != nil {
		return pipelineError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) SendDebug(ctx *fiber.Ctx) error {
	req, err := c.parseRequest(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.SendChatDebug(ctx.Context(), req)
	if err != nil {
		return pipelineError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	limit, _ := strconv.Atoi(ctx.Query("limit", "6"))

	res, err := c.chatService.GetHistory(ctx.Context(), sessionId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Trace(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	tr, found := c.chatService.GetTrace(sessionId)
	if !found {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "No trace for session"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", tr))
}

func (c *chatController) parseRequest(ctx *fiber.Ctx) (*dto.SendChatRequest, error) {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	// Header wins over body for session routing
	if headerSession := ctx.Get("X-Session-Id"); headerSession != "" {
		req.SessionId = headerSession
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return &req, nil
}

// pipelineError hides internal detail from callers; the cause lives in the
// debug trace and logs only.
func pipelineError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, rag.ErrTimeout) {
		return ctx.Status(fiber.StatusGatewayTimeout).JSON(serverutils.ErrorResponse(504, "Response timed out"))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to generate response"))
}
