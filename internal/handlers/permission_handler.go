package handlers

import (
	"net/http"

	"memberd/internal/api/middleware"
	"memberd/internal/services"
	"memberd/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

type PermissionHandler struct {
	registry *services.RegistryService
	log      *logger.Logger
}

func NewPermissionHandler(registry *services.RegistryService) *PermissionHandler {
	return &PermissionHandler{registry: registry, log: logger.New("PermissionHandler")}
}

type CreatePermissionRequest struct {
	Name        string `json:"name"`
	Resource    string `json:"resource" validate:"required,min=2,max=64"`
	Action      string `json:"action" validate:"required,min=2,max=64"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	Description string `json:"description" validate:"required"`
}

func (h *PermissionHandler) Create(c echo.Context) error {
	var req CreatePermissionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	perm, err := h.registry.CreatePermission(c.Request().Context(), middleware.GetActor(c), services.PermissionInput{
		Name:        req.Name,
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, perm)
}

// Update edits the description only. Resource and action are identifiers
// referenced by role grants and never change.
func (h *PermissionHandler) Update(c echo.Context) error {
	var req UpdatePermissionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	perm, err := h.registry.UpdatePermission(c.Request().Context(), middleware.GetActor(c), c.Param("id"), req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, perm)
}

func (h *PermissionHandler) Delete(c echo.Context) error {
	if err := h.registry.DeletePermission(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "permission deleted")
}
