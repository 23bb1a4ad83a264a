package handlers

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/metrics"
	"github.com/instabio/backend/internal/soul"
	"github.com/instabio/backend/pkg/logger"
)

// WebSocketHandler streams Soul chat responses word by word, so the
// frontend can render the reply as if the storyteller were speaking.
type WebSocketHandler struct {
	service *soul.Service
}

func NewWebSocketHandler(service *soul.Service) *WebSocketHandler {
	return &WebSocketHandler{service: service}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type    string `json:"type"`
			Content string `json:"content"`
			UserID  string `json:"user_id"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "chat" {
			continue
		}

		if msg.UserID == "" || msg.Content == "" {
			h.sendError(c, "user_id and content are required")
			continue
		}

		err = h.streamChat(c, msg.UserID, msg.Content)
		if err != nil {
			logger.Error("Failed to stream chat response", zap.Error(err))
			h.sendError(c, "Failed to process message")
		}
	}
}

func (h *WebSocketHandler) streamChat(c *websocket.Conn, userID, message string) error {
	ctx := context.Background()

	h.sendChunk(c, "status", "Remembering...")

	start := time.Now()
	result := h.service.Chat(ctx, userID, message)
	metrics.SoulChatDuration.Observe(time.Since(start).Seconds())
	metrics.SoulChatTotal.WithLabelValues(result.Status).Inc()

	words := splitIntoWords(result.Response)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
	}

	return h.sendComplete(c, result)
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	msg := map[string]interface{}{
		"type":    msgType,
		"content": content,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, result soul.ChatResult) error {
	msg := map[string]interface{}{
		"type":      "complete",
		"status":    result.Status,
		"citations": result.Citations,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
