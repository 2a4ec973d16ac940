package handler

import (
	"ct-assessment/internal/domain"
	"ct-assessment/internal/dto"
	"ct-assessment/internal/service"
	"ct-assessment/internal/util"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler owns the admin console surface outside question authoring:
// the password gate, result browsing/export, homepage customization and the
// Google connection lifecycle.
type AdminHandler struct {
	auth     *service.AdminAuthService
	archive  *service.ExportService
	results  service.ResultLister
	settings *service.SettingsService
	google   *service.GoogleConnection
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	auth *service.AdminAuthService,
	export *service.ExportService,
	results service.ResultLister,
	settings *service.SettingsService,
	google *service.GoogleConnection,
) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		archive:  export,
		results:  results,
		settings: settings,
		google:   google,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	token, err := h.auth.Login(c.Context(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token})
}

// ChangePassword handles PUT /api/admin/password
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.auth.ChangePassword(c.Context(), req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListResults handles GET /api/admin/results
func (h *AdminHandler) ListResults(c *fiber.Ctx) error {
	results, err := h.results.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ResultListResponse{Results: results})
}

// ExportCSV handles GET /api/admin/results/export
func (h *AdminHandler) ExportCSV(c *fiber.Ctx) error {
	csv, err := h.archive.ExportCSV(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+h.archive.CSVFileName()+`"`)
	return c.SendString(csv)
}

// UploadToDrive handles POST /api/admin/results/upload
func (h *AdminHandler) UploadToDrive(c *fiber.Ctx) error {
	name, err := h.archive.UploadToDrive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResponse{FileName: name})
}

// GetHomepage handles GET /api/homepage
func (h *AdminHandler) GetHomepage(c *fiber.Ctx) error {
	settings, err := h.settings.Homepage(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// SaveHomepage handles PUT /api/admin/homepage
func (h *AdminHandler) SaveHomepage(c *fiber.Ctx) error {
	var settings service.HomepageSettings
	if err := c.BodyParser(&settings); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.settings.SaveHomepage(c.Context(), settings); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetClientID handles PUT /api/admin/google/client-id
func (h *AdminHandler) SetClientID(c *fiber.Ctx) error {
	var req dto.ClientIDRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if err := h.google.SetClientID(c.Context(), req.ClientID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetClientID handles DELETE /api/admin/google/client-id
func (h *AdminHandler) ResetClientID(c *fiber.Ctx) error {
	if err := h.google.ResetClientID(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Status handles GET /api/admin/google/status
func (h *AdminHandler) Status(c *fiber.Ctx) error {
	clientID, err := h.google.ClientID(c.Context())
	if err != nil {
		return err
	}
	resp := dto.GoogleStatusResponse{
		Connected:   h.google.Connected(),
		ClientIDSet: clientID != "",
	}
	if resp.ClientIDSet && !resp.Connected {
		state := util.NewULID()
		setOAuthState(c, state)
		url, err := h.google.AuthURL(c.Context(), state)
		if err != nil {
			return err
		}
		resp.AuthURL = url
	}
	return c.JSON(resp)
}

// Callback handles GET /api/admin/google/callback. Closing the consent
// popup never reaches this handler; that outcome is simply the absence of a
// callback, not an error.
func (h *AdminHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		return domain.NewInvalidInputError("missing authorization code")
	}
	if err := h.google.HandleCallback(c.Context(), code, state, oauthState(c)); err != nil {
		return err
	}
	clearOAuthState(c)
	return c.JSON(dto.GoogleStatusResponse{Connected: true, ClientIDSet: true})
}

// Disconnect handles DELETE /api/admin/google/connection
func (h *AdminHandler) Disconnect(c *fiber.Ctx) error {
	h.google.Invalidate()
	return c.SendStatus(fiber.StatusNoContent)
}

const oauthStateCookie = "oauth_state"

func setOAuthState(c *fiber.Ctx, state string) {
	c.Cookie(&fiber.Cookie{Name: oauthStateCookie, Value: state, HTTPOnly: true})
}

func oauthState(c *fiber.Ctx) string {
	return c.Cookies(oauthStateCookie)
}

func clearOAuthState(c *fiber.Ctx) {
	c.ClearCookie(oauthStateCookie)
}
