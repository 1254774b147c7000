package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/services"
	"github.com/webinter/internship-backend/shared"
)

// SheetHandler covers the spreadsheet surface: multipart upload-merge and
// xlsx export.
type SheetHandler struct {
	Ingest     *services.IngestService
	Candidates *services.CandidateService
}

func NewSheetHandler(ingest *services.IngestService, candidates *services.CandidateService) *SheetHandler {
	return &SheetHandler{Ingest: ingest, Candidates: candidates}
}

// Upload merges an uploaded workbook into the candidate set. Rows missing
// an intern id or name are skipped, everything else is upserted by
// intern_id; no existing data is deleted.
func (h *SheetHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Could not read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Could not read uploaded file",
		})
	}

	result, err := h.Ingest.MergeWorkbook(c.Context(), data)
	if err != nil {
		var svcErr *shared.ServiceError
		if errors.As(err, &svcErr) && svcErr.Code == shared.CodeDecodeFailure {
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

	logrus.WithFields(logrus.Fields{
		"filename": fileHeader.Filename,
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
	}).Info("Sheet upload processed")

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Successfully imported %d candidates (%d skipped due to missing ID or Name)",
			result.Accepted, result.Skipped),
		"data": result,
	})
}

// Export streams all candidates as an xlsx attachment.
func (h *SheetHandler) Export(c *fiber.Ctx) error {
	candidates, err := h.Candidates.ExportAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	data, err := services.EncodeCandidates(candidates)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="candidates_export.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
