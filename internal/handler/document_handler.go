package handler

import (
	"errors"
	"log/slog"

	"github.com/arturoeanton/knowledge-chat/internal/port"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/gofiber/fiber/v3"
)

// DocumentHandler serves knowledge-base ingestion and the embedding self-test.
type DocumentHandler struct {
	docs *service.DocumentService
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(docs *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// Register sets up document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("/api/add-document", h.AddDocument)
	router.Get("/api/test-embedding", h.TestEmbedding)
}

// AddDocument embeds and stores one passage.
func (h *DocumentHandler) AddDocument(c fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorEnvelope{Error: msgInvalidJSON})
	}

	if err := h.docs.Ingest(c.Context(), body.Content); err != nil {
		if errors.Is(err, port.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorEnvelope{Error: "Content is required"})
		}
		slog.Error("add-document failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorEnvelope{Error: err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// TestEmbedding embeds a fixed text and reports the vector shape.
func (h *DocumentHandler) TestEmbedding(c fiber.Ctx) error {
	res, err := h.docs.TestEmbedding(c.Context())
	if err != nil {
		slog.Error("test-embedding failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorEnvelope{Error: err.Error()})
	}
	return c.JSON(res)
}
