package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/services"
)

type SearchHandler struct {
	index services.CandidateIndex
}

func NewSearchHandler(index services.CandidateIndex) *SearchHandler {
	return &SearchHandler{index: index}
}

// HandleSearch handles GET /candidates/search?q=<query>&limit=<n>
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	matches, err := h.index.Search(c.UserContext(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Candidate search is unavailable",
		})
	}

	return c.JSON(models.SearchResponse{
		Query:   query,
		Matches: matches,
	})
}
