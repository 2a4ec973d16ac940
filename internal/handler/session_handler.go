package handler

import (
	"ct-assessment/internal/domain"
	"ct-assessment/internal/dto"
	"ct-assessment/internal/service"
	"ct-assessment/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler drives the assessment flow over HTTP. All session state
// lives behind the service; handlers only translate requests and responses.
type SessionHandler struct {
	sessions  *service.SessionService
	validator *validation.Validator
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *service.SessionService, validator *validation.Validator) *SessionHandler {
	return &SessionHandler{sessions: sessions, validator: validator}
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(h.sessions.Create())
}

// Get handles GET /api/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	resp, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// BeginIntake handles POST /api/sessions/:id/intake
func (h *SessionHandler) BeginIntake(c *fiber.Ctx) error {
	resp, err := h.sessions.BeginIntake(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetExaminer handles PUT /api/sessions/:id/examiner
func (h *SessionHandler) SetExaminer(c *fiber.Ctx) error {
	var req dto.SetExaminerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateExaminer(req.Examiner); len(errs) > 0 {
		return errs
	}
	resp, err := h.sessions.SetExaminer(c.Params("id"), req.Examiner)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Start handles POST /api/sessions/:id/start
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateProfile(req.Profile); len(errs) > 0 {
		return errs
	}
	resp, err := h.sessions.Start(c.Context(), c.Params("id"), req.Profile)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Answer handles PUT /api/sessions/:id/answer
func (h *SessionHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.sessions.Answer(c.Params("id"), req.OptionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Advance handles POST /api/sessions/:id/advance
func (h *SessionHandler) Advance(c *fiber.Ctx) error {
	resp, err := h.sessions.Advance(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Restart handles POST /api/sessions/:id/restart
func (h *SessionHandler) Restart(c *fiber.Ctx) error {
	resp, err := h.sessions.Restart(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
