package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/jobs"
)

type AdminHandler struct {
	SyncJob *jobs.SheetSyncJob
}

func NewAdminHandler(syncJob *jobs.SheetSyncJob) *AdminHandler {
	return &AdminHandler{SyncJob: syncJob}
}

// TriggerSync manually runs the remote sheet resync.
func (h *AdminHandler) TriggerSync(c *fiber.Ctx) error {
	if !h.SyncJob.Configured() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "No sheet sync URL configured",
		})
	}

	logrus.Info("Manual sheet sync triggered via admin endpoint")

	startTime := time.Now()
	h.SyncJob.Run()
	duration := time.Since(startTime)

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Sheet sync completed",
		"duration": duration.String(),
		"status":   h.SyncJob.Metrics().Snapshot(),
	})
}

// SyncStatus reports the outcome of recent sync runs.
func (h *AdminHandler) SyncStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"configured": h.SyncJob.Configured(),
		"data":       h.SyncJob.Metrics().Snapshot(),
	})
}
