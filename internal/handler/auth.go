package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/response"
	"neuraslide/internal/service"
	"neuraslide/internal/validation"
)

type AuthHandler interface {
	Signup(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
	ChangePassword(c *gin.Context)
	VerifyEmail(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) AuthHandler {
	return &authHandler{authService: authService, logger: logger}
}

func (h *authHandler) Signup(c *gin.Context) {
	var req validation.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateSignup(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	user, err := h.authService.Signup(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, "Account created", gin.H{"user": user})
}

func (h *authHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateLogin(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	token, expiresAt, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

func (h *authHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Logout successful", nil)
}

func (h *authHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"user": user})
}

func (h *authHandler) ForgotPassword(c *gin.Context) {
	var req validation.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateForgotPassword(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	// Same message whether or not the address exists.
	response.OK(c, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

func (h *authHandler) ResetPassword(c *gin.Context) {
	var req validation.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateResetPassword(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Password updated", nil)
}

func (h *authHandler) ChangePassword(c *gin.Context) {
	var req validation.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateChangePassword(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.authService.ChangePassword(currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Password updated", nil)
}

func (h *authHandler) VerifyEmail(c *gin.Context) {
	var req validation.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateVerifyEmail(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	if err := h.authService.VerifyEmail(req.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Email verified", nil)
}
