package handlers

import (
	"net/http"

	"memberd/internal/api/middleware"
	"memberd/internal/services"
	"memberd/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

type RoleHandler struct {
	registry *services.RegistryService
	log      *logger.Logger
}

func NewRoleHandler(registry *services.RegistryService) *RoleHandler {
	return &RoleHandler{registry: registry, log: logger.New("RoleHandler")}
}

type CreateRoleRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=64"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permissionIds" validate:"omitempty,dive,uuid"`
}

type UpdateRoleRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=2,max=64"`
	Description   *string   `json:"description"`
	PermissionIDs *[]string `json:"permissionIds" validate:"omitempty,dive,uuid"`
}

func (h *RoleHandler) Create(c echo.Context) error {
	var req CreateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	role, err := h.registry.CreateRole(c.Request().Context(), middleware.GetActor(c), req.Name, req.Description, req.PermissionIDs)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, role)
}

func (h *RoleHandler) Update(c echo.Context) error {
	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	role, err := h.registry.UpdateRole(c.Request().Context(), middleware.GetActor(c), c.Param("id"), services.RolePatch{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, role)
}

func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.registry.DeleteRole(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respondMessage(c, http.StatusOK, "role deleted")
}
