package handler

import (
	"errors"
	"strconv"

	"ct-assessment/internal/domain"
	"ct-assessment/internal/dto"
	"ct-assessment/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler owns the admin question-authoring surface.
type QuestionHandler struct {
	authoring *service.AuthoringService
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(authoring *service.AuthoringService) *QuestionHandler {
	return &QuestionHandler{authoring: authoring}
}

// List handles GET /api/admin/questions
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	questions, err := h.authoring.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionListResponse{Questions: questions})
}

// Upsert handles POST /api/admin/questions. A persistence failure does not
// roll back the edit: the response carries the saved question plus a
// warning, authoring continues non-durable.
func (h *QuestionHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	saved, err := h.authoring.Upsert(c.Context(), req.Question)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeStorage {
			return c.JSON(fiber.Map{
				"question": saved,
				"warning":  domainErr.Message,
			})
		}
		return err
	}
	return c.JSON(fiber.Map{"question": saved})
}

// Remove handles DELETE /api/admin/questions/:id
func (h *QuestionHandler) Remove(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("invalid question id")
	}

	if err := h.authoring.Remove(c.Context(), id); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeStorage {
			return c.JSON(fiber.Map{"warning": domainErr.Message})
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Generate handles POST /api/admin/questions/generate
func (h *QuestionHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Age <= 0 {
		return domain.NewInvalidInputError("age must be positive")
	}

	drafts, err := h.authoring.GenerateCandidates(c.Context(), req.Age, req.Count)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionListResponse{Questions: drafts})
}
