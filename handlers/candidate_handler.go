package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/webinter/internship-backend/models"
	"github.com/webinter/internship-backend/services"
	"github.com/webinter/internship-backend/shared"
)

type CandidateHandler struct {
	Service *services.CandidateService
}

func NewCandidateHandler(service *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{Service: service}
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	filter := services.CandidateFilter{
		Status:     c.Query("status"),
		Year:       c.Query("year"),
		College:    c.Query("college"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	}

	candidates, err := h.Service.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    candidates,
	})
}

func (h *CandidateHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid candidate id",
		})
	}

	candidate, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if candidate == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Candidate not found",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    candidate,
	})
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var candidate models.Candidate
	if err := c.BodyParser(&candidate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if candidate.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Name is required",
		})
	}

	if err := h.Service.Create(c.Context(), &candidate); err != nil {
		var svcErr *shared.ServiceError
		if errors.As(err, &svcErr) && svcErr.Code == shared.CodeDuplicateKey {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   svcErr.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    candidate,
	})
}

func (h *CandidateHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := h.Service.DistinctStatuses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    statuses,
	})
}

func (h *CandidateHandler) Extend(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid candidate id",
		})
	}

	var req struct {
		NewEndDate string  `json:"new_end_date"`
		Reason     *string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil || req.NewEndDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "new_end_date is required",
		})
	}

	ext, err := h.Service.Extend(c.Context(), id, req.NewEndDate, req.Reason)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	if ext == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Candidate not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Extension recorded",
		"data":    ext,
	})
}

func (h *CandidateHandler) Extensions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid candidate id",
		})
	}

	extensions, err := h.Service.ListExtensions(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    extensions,
	})
}
