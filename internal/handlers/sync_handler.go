package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hiring-agent/internal/activitylog"
	"hiring-agent/internal/services"
)

type SyncHandler struct {
	sync     services.SyncService
	activity *activitylog.Log
}

func NewSyncHandler(sync services.SyncService, activity *activitylog.Log) *SyncHandler {
	return &SyncHandler{
		sync:     sync,
		activity: activity,
	}
}

// HandleTriggerSync handles POST /sync. The call blocks until the
// cycle finishes; a scheduled sync already in flight runs first.
func (h *SyncHandler) HandleTriggerSync(c *fiber.Ctx) error {
	result, err := h.sync.Sync(c.Context(), "manual")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Sync failed: %v", err),
		})
	}
	return c.JSON(result)
}

// HandleActivity handles GET /activity
func (h *SyncHandler) HandleActivity(c *fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}
		limit = parsed
	}

	entries := h.activity.List(limit)
	return c.JSON(fiber.Map{
		"count":   len(entries),
		"entries": entries,
	})
}
