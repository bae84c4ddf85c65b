package handlers

import (
	"net/http"
	"strconv"

	"memberd/internal/api/middleware"
	"memberd/internal/models"
	"memberd/internal/repository"
	"memberd/internal/services"
	"memberd/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler exposes the administrator operations on member accounts:
// approval decisions, status edits, role assignment, deletion and the
// bulk variants.
type UserHandler struct {
	lifecycle *services.LifecycleService
	registry  *services.RegistryService
	bulk      *services.BulkService
	audit     *repository.AuditRepo
	log       *logger.Logger
}

func NewUserHandler(lifecycle *services.LifecycleService, registry *services.RegistryService, bulk *services.BulkService, audit *repository.AuditRepo) *UserHandler {
	return &UserHandler{
		lifecycle: lifecycle,
		registry:  registry,
		bulk:      bulk,
		audit:     audit,
		log:       logger.New("UserHandler"),
	}
}

type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	PCNLicense string `json:"pcnLicense"`
	RoleID     string `json:"roleId" validate:"required,uuid"`
}

type AssignRoleRequest struct {
	RoleID string `json:"roleId" validate:"required,uuid"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,user_status"`
}

type BulkStatusRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,uuid"`
	Status  string   `json:"status" validate:"required,user_status"`
}

type BulkRoleRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,uuid"`
	RoleID  string   `json:"roleId" validate:"required,uuid"`
}

// Approve activates a pending account
func (h *UserHandler) Approve(c echo.Context) error {
	user, err := h.lifecycle.Approve(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// Deny rejects a pending account
func (h *UserHandler) Deny(c echo.Context) error {
	user, err := h.lifecycle.Deny(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// AssignRole moves a user onto a different role
func (h *UserHandler) AssignRole(c echo.Context) error {
	var req AssignRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.registry.AssignRole(c.Request().Context(), middleware.GetActor(c), c.Param("id"), req.RoleID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// Delete removes an account
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.lifecycle.Delete(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	h.log.Info("user %s deleted by %s", c.Param("id"), middleware.GetUserEmail(c))
	return respondMessage(c, http.StatusOK, "user deleted")
}

// PendingApprovals lists accounts waiting on a decision
func (h *UserHandler) PendingApprovals(c echo.Context) error {
	page, limit := parsePagination(c)
	users, total, err := h.lifecycle.PendingApprovals(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, users, page, limit, total)
}

// Create adds an account by administrator fiat, skipping the approval queue
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, err)
	}

	user := &models.User{
		Email:      req.Email,
		Password:   string(hashedPassword),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		PCNLicense: req.PCNLicense,
		RoleID:     req.RoleID,
	}

	user, err = h.lifecycle.CreateByAdmin(c.Request().Context(), middleware.GetActor(c), user)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, user)
}

// ChangeStatus applies a direct status edit
func (h *UserHandler) ChangeStatus(c echo.Context) error {
	var req ChangeStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.lifecycle.ChangeStatus(c.Request().Context(), middleware.GetActor(c), c.Param("id"), models.UserStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, user)
}

// BulkStatus applies a status change to many users, reporting per-item
// outcomes. The call answers 200 even when some items fail.
func (h *UserHandler) BulkStatus(c echo.Context) error {
	var req BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	h.log.Info("bulk status change to %s for %d users by %s", req.Status, len(req.UserIDs), middleware.GetUserEmail(c))
	result := h.bulk.ChangeStatus(c.Request().Context(), middleware.GetActor(c), req.UserIDs, models.UserStatus(req.Status))
	return respond(c, http.StatusOK, result)
}

// BulkRole assigns a role to many users, reporting per-item outcomes
func (h *UserHandler) BulkRole(c echo.Context) error {
	var req BulkRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	h.log.Info("bulk role assignment for %d users by %s", len(req.UserIDs), middleware.GetUserEmail(c))
	result := h.bulk.AssignRole(c.Request().Context(), middleware.GetActor(c), req.UserIDs, req.RoleID)
	return respond(c, http.StatusOK, result)
}

// AuditTrail returns the audit entries recorded against a user, newest first
func (h *UserHandler) AuditTrail(c echo.Context) error {
	page, limit := parsePagination(c)
	entries, total, err := h.audit.ListForResource(c.Request().Context(), "user", c.Param("id"), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, entries, page, limit, total)
}

func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
