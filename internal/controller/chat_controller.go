package controller

import (
	"bufio"

	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
}

// Chat streams the answer as plain text chunks. Validation and model
// selection errors are returned before the stream starts and become normal
// error responses; anything after that is reported in-band.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	stream, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	reqCtx := ctx.Context()
	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		stream(reqCtx, func(delta string) error {
			if _, err := w.WriteString(delta); err != nil {
				return err
			}
			// Flush per chunk so the client sees tokens as they arrive.
			return w.Flush()
		})
	}))

	return nil
}
