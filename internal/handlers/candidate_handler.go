package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
	"hiring-agent/internal/services"
)

type CandidateHandler struct {
	intake        services.IntakeService
	analyzer      services.AnalyzerService
	candidateRepo repositories.CandidateRepository
	linkRepo      repositories.LinkRepository
	maxFileSize   int64
}

func NewCandidateHandler(
	intake services.IntakeService,
	analyzer services.AnalyzerService,
	candidateRepo repositories.CandidateRepository,
	linkRepo repositories.LinkRepository,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		intake:        intake,
		analyzer:      analyzer,
		candidateRepo: candidateRepo,
		linkRepo:      linkRepo,
		maxFileSize:   maxFileSize,
	}
}

// HandleUpload handles POST /candidates/upload
func (h *CandidateHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file uploaded. Please upload 'resume'.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer src.Close()

	content := make([]byte, file.Size)
	if _, err := io.ReadFull(src, content); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}

	req := services.IntakeRequest{
		Filename: file.Filename,
		Content:  content,
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Source:   models.SourceUpload,
	}
	if raw := c.FormValue("job_description_id"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_description_id format",
			})
		}
		req.JobDescriptionID = &jobID
	}

	outcome, err := h.intake.CreateFromResume(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to import resume: %v", err),
		})
	}

	switch outcome.Status {
	case services.IntakeRejected:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status": string(outcome.Status),
			"error":  outcome.Reason,
		})
	case services.IntakeDuplicate:
		return c.Status(fiber.StatusOK).JSON(models.UploadResponse{
			ID:     outcome.Candidate.ID.String(),
			Name:   outcome.Candidate.Name,
			Email:  outcome.Candidate.EmailOrEmpty(),
			Status: string(outcome.Status),
		})
	default:
		resp := models.UploadResponse{
			ID:     outcome.Candidate.ID.String(),
			Name:   outcome.Candidate.Name,
			Email:  outcome.Candidate.EmailOrEmpty(),
			Status: string(outcome.Status),
		}
		if outcome.Candidate.ResumeFilePath != nil {
			resp.FilePath = *outcome.Candidate.ResumeFilePath
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// HandleListCandidates handles GET /candidates
func (h *CandidateHandler) HandleListCandidates(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}
	return c.JSON(fiber.Map{"candidates": candidates})
}

// HandleGetCandidate handles GET /candidates/:id
func (h *CandidateHandler) HandleGetCandidate(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.candidateRepo.FindByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	links, err := h.linkRepo.FindByCandidate(candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load candidate links",
		})
	}

	return c.JSON(fiber.Map{
		"candidate": candidate,
		"links":     links,
	})
}

// HandleAnalyze handles POST /candidates/:id/analyze
func (h *CandidateHandler) HandleAnalyze(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	var req models.AnalyzeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	var jobID uuid.UUID
	if req.JobDescriptionID != "" {
		jobID, err = uuid.Parse(req.JobDescriptionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_description_id format",
			})
		}
	} else {
		// No job given: analyze against the strongest linked one.
		link, err := h.linkRepo.BestForCandidate(candidateID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve linked job description",
			})
		}
		if link == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Candidate is not linked to any job description",
			})
		}
		jobID = link.JobDescriptionID
	}

	run, err := h.analyzer.Analyze(c.Context(), candidateID, jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Analysis failed: %v", err),
		})
	}

	return c.JSON(run)
}

// HandleInterviewStrategy handles GET /candidates/:id/interview-strategy
func (h *CandidateHandler) HandleInterviewStrategy(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	strategy, err := h.analyzer.InterviewStrategy(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analysis found for candidate",
		})
	}

	return c.JSON(strategy)
}
