package handlers

import (
	"errors"

	"github.com/applynowhq/admissions-backend/internal/dto"
	"github.com/applynowhq/admissions-backend/internal/predict"
	"github.com/gofiber/fiber/v2"
)

const maxChatMessages = 20

// AssistHandler backs the portal's help widget, proxying short conversations
// to the reasoning service with the admissions-assistant persona.
type AssistHandler struct {
	engine *predict.Engine
}

func NewAssistHandler(engine *predict.Engine) *AssistHandler {
	return &AssistHandler{engine: engine}
}

func (h *AssistHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if len(req.Messages) == 0 || len(req.Messages) > maxChatMessages {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Between 1 and 20 messages required",
		})
	}

	messages := make([]predict.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Message role must be user or assistant",
			})
		}
		messages[i] = predict.ChatMessage{Role: m.Role, Content: m.Content}
	}

	reply, err := h.engine.Chat(c.Context(), messages)
	if err != nil {
		if errors.Is(err, predict.ErrNoProvider) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Assistant is not configured",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Assistant unavailable, please retry",
		})
	}

	return c.JSON(dto.ChatResponse{Reply: reply})
}
