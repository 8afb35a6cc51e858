package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AdminHandler exposes dashboard figures.
type AdminHandler struct {
	stats  *service.StatsService
	points *service.GamificationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(stats *service.StatsService, points *service.GamificationService) *AdminHandler {
	return &AdminHandler{stats: stats, points: points}
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{Stats: overview.Stats, Assistant: overview.Metrics}})
}

// Leaderboard GET /api/leaderboard.
func (h *AdminHandler) Leaderboard(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 10)
	if limit > 100 {
		limit = 100
	}
	entries, err := h.points.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(fiber.Map{"data": entries})
}
