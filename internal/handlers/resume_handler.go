package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/repositories"
	"hirelens/resume-intel/internal/services"
)

// ResumeHandler owns resume upload and deletion. It is the collaborator
// responsible for cache invalidation: replacing or removing a document clears
// the extracted-text and summary caches and the search index entry, so the
// pipeline can never serve text from an older upload.
type ResumeHandler struct {
	profileRepo repositories.ProfileRepository
	storage     services.StorageService
	index       services.CandidateIndex
	maxFileSize int64
	logger      *zap.Logger
}

func NewResumeHandler(
	profileRepo repositories.ProfileRepository,
	storage services.StorageService,
	index services.CandidateIndex,
	maxFileSize int64,
	logger *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		profileRepo: profileRepo,
		storage:     storage,
		index:       index,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleUpload handles POST /profiles/:id/resume
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile ID format",
		})
	}

	profile, err := h.profileRepo.FindByID(profileID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing 'resume' file field",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, _, err := h.storage.SaveFile(file)
	if err != nil {
		var unsupported *services.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fmt.Sprintf("Unsupported resume format: %s. Upload a .pdf or .docx file.", unsupported.Reference),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume: %v", err),
		})
	}

	oldFile := profile.ResumeFile

	if err := h.profileRepo.ReplaceResume(profileID, filename, file.Filename); err != nil {
		// Keep storage consistent with the record we failed to update
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile resume",
		})
	}

	h.cleanupReplaced(c, profileID, oldFile)

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ProfileID:    profileID.String(),
		Filename:     filename,
		OriginalName: file.Filename,
	})
}

// HandleDelete handles DELETE /profiles/:id/resume
func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile ID format",
		})
	}

	profile, err := h.profileRepo.FindByID(profileID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	if err := h.profileRepo.ClearResume(profileID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to clear profile resume",
		})
	}

	h.cleanupReplaced(c, profileID, profile.ResumeFile)

	return c.JSON(fiber.Map{
		"message": "Resume removed",
	})
}

func (h *ResumeHandler) cleanupReplaced(c *fiber.Ctx, profileID uuid.UUID, oldFile string) {
	if oldFile != "" {
		if err := h.storage.DeleteFile(oldFile); err != nil {
			h.logger.Warn("failed to delete replaced resume file",
				zap.String("profile_id", profileID.String()),
				zap.String("filename", oldFile),
				zap.Error(err),
			)
		}
	}

	if h.index != nil {
		if err := h.index.Remove(c.UserContext(), profileID); err != nil {
			h.logger.Warn("failed to drop candidate index entry",
				zap.String("profile_id", profileID.String()),
				zap.Error(err),
			)
		}
	}
}
