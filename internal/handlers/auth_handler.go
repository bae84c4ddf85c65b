package handlers

import (
	"fmt"
	"net/http"
	"time"

	"memberd/internal/config"
	"memberd/internal/events"
	"memberd/internal/models"
	"memberd/internal/services"
	"memberd/internal/utils"
	"memberd/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier services.Notifier
	log      *logger.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, notifier services.Notifier) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, notifier: notifier, log: logger.New("AuthHandler")}
}

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	PCNLicense string `json:"pcnLicense"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetCodeRequest struct {
	Code     string `json:"code" validate:"required"`
	Password string `json:"new_password" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Register creates a new account in PENDING status. The account cannot log
// in until an administrator approves it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if _, err := models.GetUserByEmail(h.db, req.Email); err == nil {
		return respondError(c, services.Conflictf("email already registered"))
	}

	role, err := models.GetRoleByName(h.db, models.RoleMember)
	if err != nil {
		h.log.Warn("default role missing, was the database seeded? %v", err)
		return respondError(c, fmt.Errorf("default role not available"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, fmt.Errorf("failed to hash password: %w", err))
	}

	user := models.User{
		Email:      req.Email,
		Password:   string(hashedPassword),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		PCNLicense: req.PCNLicense,
		RoleID:     role.ID,
		Status:     models.UserStatusPending,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return respondError(c, services.Conflictf("email already registered"))
	}

	token, err := utils.GenerateRandomString(32)
	if err != nil {
		return respondError(c, err)
	}
	verification := models.EmailVerification{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(&verification).Error; err != nil {
		return respondError(c, err)
	}

	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", h.cfg.Server.PublicURL, token)
	if ok := h.notifier.VerifyEmail(c.Request().Context(), user.Email, user.FullName(), verificationURL); !ok {
		h.log.Warn("verification email for %s not dispatched", user.Email)
	}

	return respond(c, http.StatusCreated, map[string]interface{}{
		"id":     user.ID,
		"email":  user.Email,
		"status": user.Status,
	})
}

// Login authenticates credentials and returns a token pair. Accounts that
// are not ACTIVE are told why they cannot log in.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var user models.User
	err := h.db.Preload("Role.Permissions").
		Where("email = ? AND is_deleted = ?", req.Email, false).
		First(&user).Error
	if err != nil {
		return respondError(c, services.Forbiddenf("invalid email or password"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, services.Forbiddenf("invalid email or password"))
	}

	switch user.Status {
	case models.UserStatusPending:
		return respondError(c, services.Forbiddenf("account is pending approval"))
	case models.UserStatusRejected:
		return respondError(c, services.Forbiddenf("account registration was denied"))
	case models.UserStatusSuspended:
		return respondError(c, services.Forbiddenf("account is suspended"))
	case models.UserStatusInactive:
		return respondError(c, services.Forbiddenf("account is inactive"))
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return respondError(c, err)
	}
	refresh, err := utils.GenerateRefreshToken(user)
	if err != nil {
		return respondError(c, err)
	}

	transaction := models.AuthTransaction{
		UserID:    user.ID,
		Token:     token,
		Refresh:   refresh,
		IPAddress: utils.GetIPAddress(c.Request()),
		UserAgent: c.Request().UserAgent(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(&transaction).Error; err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	h.db.Model(&user).Update("last_login_at", now)

	events.Emit("user.logged_in", &user)

	return respond(c, http.StatusOK, map[string]interface{}{
		"token":        token,
		"refreshToken": refresh,
		"user":         user,
	})
}

// VerifyEmail consumes a verification token. Tokens are single use and
// expire 24 hours after registration.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return respondError(c, services.Validationf("missing verification token"))
	}

	var verification models.EmailVerification
	err := h.db.Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now()).
		First(&verification).Error
	if err != nil {
		return respondError(c, services.NotFoundf("verification token"))
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return respondError(c, tx.Error)
	}
	if err := tx.Model(&verification).Update("used", true).Error; err != nil {
		tx.Rollback()
		return respondError(c, err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", verification.UserID).
		Update("is_email_verified", true).Error; err != nil {
		tx.Rollback()
		return respondError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return respondError(c, err)
	}

	return respondMessage(c, http.StatusOK, "email verified")
}

// RequestPasswordReset always answers 200 so the endpoint cannot be used to
// probe which emails are registered.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := models.GetUserByEmail(h.db, req.Email)
	if err == nil && !user.IsDeleted {
		code, err := utils.GenerateRandomString(24)
		if err != nil {
			return respondError(c, err)
		}
		reset := models.PasswordReset{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		}
		if err := h.db.Create(&reset).Error; err != nil {
			return respondError(c, err)
		}

		resetURL := fmt.Sprintf("%s/reset-password?code=%s", h.cfg.Server.PublicURL, code)
		if ok := h.notifier.PasswordReset(c.Request().Context(), user.Email, user.FullName(), resetURL); !ok {
			h.log.Warn("password reset email for %s not dispatched", user.Email)
		}
	}

	return respondMessage(c, http.StatusOK, "if the email is registered, a reset link has been sent")
}

// VerifyResetCode consumes a reset code and sets the new password
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req VerifyResetCodeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var reset models.PasswordReset
	err := h.db.Where("code = ? AND used = ? AND expires_at > ?", req.Code, false, time.Now()).
		First(&reset).Error
	if err != nil {
		return respondError(c, services.NotFoundf("reset code"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, err)
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		return respondError(c, tx.Error)
	}
	if err := tx.Model(&reset).Update("used", true).Error; err != nil {
		tx.Rollback()
		return respondError(c, err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return respondError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return respondError(c, err)
	}

	return respondMessage(c, http.StatusOK, "password updated")
}

// RefreshToken exchanges a valid refresh token for a fresh token pair
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, services.Validationf("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	claims, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	var transaction models.AuthTransaction
	if err := h.db.Where("user_id = ? AND refresh = ?", claims.UserID, req.RefreshToken).
		First(&transaction).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token not recognized")
	}

	var user models.User
	err = h.db.Preload("Role.Permissions").
		Where("id = ? AND is_deleted = ?", claims.UserID, false).
		First(&user).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	if user.Status != models.UserStatusActive {
		return respondError(c, services.Forbiddenf("account is not active"))
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return respondError(c, err)
	}
	refresh, err := utils.GenerateRefreshToken(user)
	if err != nil {
		return respondError(c, err)
	}

	transaction.Token = token
	transaction.Refresh = refresh
	transaction.ExpiresAt = time.Now().Add(24 * time.Hour)
	if err := h.db.Save(&transaction).Error; err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, map[string]interface{}{
		"token":        token,
		"refreshToken": refresh,
	})
}

// GetMe returns the authenticated account with its role and permissions
func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, _ := c.Get("userID").(string)

	var user models.User
	err := h.db.Preload("Role.Permissions").
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if err != nil {
		return respondError(c, services.NotFoundf("user %s", userID))
	}

	return respond(c, http.StatusOK, user)
}
