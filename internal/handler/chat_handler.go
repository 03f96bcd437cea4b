package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/arturoeanton/knowledge-chat/internal/middleware"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/gofiber/fiber/v3"
)

// ChatHandler serves the chat endpoints for every caller protocol.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/api/chat/completions", h.Chat)
	router.Post("/v1/chat/completions", h.Chat)
	router.Post("/chat/completions", h.Chat)
	router.Post("/api/chat", h.Chat)
}

// Chat decodes any JSON body, runs the pipeline and shapes the reply for the
// protocol of the route that was hit.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	protocol := DetectProtocol(c.Route().Path)

	var body interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		slog.Warn("chat: undecodable body", "protocol", protocol.String(), "error", err)
		status, env := Reject(protocol, h.chat.ModelName(), msgInvalidJSON)
		return c.Status(status).JSON(env)
	}

	reply := h.chat.Respond(c.Context(), body)
	middleware.SetOutcome(c, string(reply.Outcome))

	status, env := Shape(protocol, reply)
	return c.Status(status).JSON(env)
}
