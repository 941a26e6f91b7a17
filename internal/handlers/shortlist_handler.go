package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/repositories"
	"hirelens/resume-intel/internal/services"
)

type ShortlistHandler struct {
	jobRepo repositories.JobRepository
	ranker  services.RankingAggregator
}

func NewShortlistHandler(jobRepo repositories.JobRepository, ranker services.RankingAggregator) *ShortlistHandler {
	return &ShortlistHandler{
		jobRepo: jobRepo,
		ranker:  ranker,
	}
}

// HandleShortlist handles GET /jobs/:id/shortlist
func (h *ShortlistHandler) HandleShortlist(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	ranked, err := h.ranker.RankApplications(c.UserContext(), jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to rank applications",
		})
	}

	return c.JSON(models.ShortlistResponse{
		JobID:        job.ID.String(),
		JobTitle:     job.Title,
		Applications: ranked,
	})
}
