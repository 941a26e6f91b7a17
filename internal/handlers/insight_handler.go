package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/services"
)

type InsightHandler struct {
	insight services.InsightService
}

func NewInsightHandler(insight services.InsightService) *InsightHandler {
	return &InsightHandler{insight: insight}
}

// HandleGenerateInsight handles POST /profiles/:id/insight
//
// The response carries either a structured summary or the raw fallback text,
// never both. Clients must branch on which one came back.
func (h *InsightHandler) HandleGenerateInsight(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile ID format",
		})
	}

	var req models.InsightRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result, err := h.insight.GetOrCreateSummary(c.UserContext(), profileID, req.JobGoal)
	if err != nil {
		return insightError(c, err)
	}

	if result.IsStructured() {
		return c.JSON(models.InsightResponse{Structured: result.Structured})
	}

	return c.JSON(models.InsightResponse{Raw: result.Raw})
}

func insightError(c *fiber.Ctx, err error) error {
	var unsupported *services.UnsupportedFormatError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	case errors.Is(err, services.ErrNoResumeUploaded):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Upload a resume before requesting insight.",
		})
	case errors.As(err, &unsupported):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrFetchFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to retrieve the stored resume document",
		})
	case errors.Is(err, services.ErrGenerationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "The analysis service is unavailable. Try again later.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
