package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/instabio/backend/internal/kg/neo4j"
	"github.com/instabio/backend/pkg/logger"
)

// KGHandler exposes read queries over the memoir graph.
type KGHandler struct {
	kgClient *neo4j.Client
}

func NewKGHandler(kgClient *neo4j.Client) *KGHandler {
	return &KGHandler{kgClient: kgClient}
}

// PersonNetwork returns the events and people connected to one person
// in the user's graph.
func (h *KGHandler) PersonNetwork(c *fiber.Ctx) error {
	if h.kgClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Knowledge graph is not configured",
		})
	}

	userID := c.Query("user_id")
	name := c.Query("name")
	if userID == "" || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and name are required",
		})
	}

	connections, err := h.kgClient.PersonNetwork(c.Context(), userID, name)
	if err != nil {
		logger.Error("Failed to query person network", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to query person network",
		})
	}

	return c.JSON(fiber.Map{
		"person":      name,
		"connections": connections,
		"count":       len(connections),
	})
}
