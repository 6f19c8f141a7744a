package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
	"hiring-agent/internal/services"
)

type JobHandler struct {
	jobRepo  repositories.JobRepository
	analyzer services.AnalyzerService
}

func NewJobHandler(jobRepo repositories.JobRepository, analyzer services.AnalyzerService) *JobHandler {
	return &JobHandler{
		jobRepo:  jobRepo,
		analyzer: analyzer,
	}
}

// HandleCreateJob handles POST /jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	job := &models.JobDescription{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Domain:         req.Domain,
		Seniority:      req.Seniority,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []string{}
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job description",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleListJobs handles GET /jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list job descriptions",
		})
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleRankings handles GET /jobs/:id/rankings
func (h *JobHandler) HandleRankings(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job description not found",
		})
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a positive integer",
			})
		}
	}

	ranked, err := h.analyzer.Rank(jobID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to rank candidates",
		})
	}

	return c.JSON(fiber.Map{
		"job_description_id": jobID.String(),
		"candidates":         ranked,
	})
}

// HandleReport handles GET /jobs/:id/report
func (h *JobHandler) HandleReport(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job description not found",
		})
	}

	report, err := h.analyzer.Report(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build hiring report",
		})
	}

	return c.JSON(report)
}
