package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caloriemate/backend/internal/service"
)

// AuthHandler exposes account registration, activation and login.
type AuthHandler struct {
	auth service.IAuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth service.IAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func respondAuthError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		failure(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountNotActive):
		failure(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidActivation):
		failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		notFound(c, "user not found")
	default:
		failure(c, http.StatusInternalServerError, message+": "+err.Error())
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		failure(c, http.StatusBadRequest, "invalid birth_date, expected YYYY-MM-DD")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &service.RegisterInput{
		Fullname:  req.Fullname,
		Username:  req.Username,
		Email:     req.Email,
		Gender:    req.Gender,
		BirthDate: birthDate,
		Password:  req.Password,
	})
	if err != nil {
		respondAuthError(c, err, "failed register")
		return
	}

	// Mail delivery is out of scope; the activation code is returned so
	// the client can redeem it.
	success(c, http.StatusCreated, gin.H{
		"user":            user,
		"activation_code": user.ActivationCode,
	}, "success register")
}

func (h *AuthHandler) Activation(c *gin.Context) {
	var req ActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Activate(c.Request.Context(), req.Code)
	if err != nil {
		respondAuthError(c, err, "failed activation")
		return
	}
	success(c, http.StatusOK, user, "success activation")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondAuthError(c, err, "failed login")
		return
	}
	success(c, http.StatusOK, gin.H{"token": token}, "success login")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err, "failed get profile")
		return
	}
	success(c, http.StatusOK, user, "success get profile")
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, &service.UpdateProfileInput{
		Fullname:       req.Fullname,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondAuthError(c, err, "failed update profile")
		return
	}
	success(c, http.StatusOK, user, "success update profile")
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.UpdatePassword(c.Request.Context(), userID, req.OldPassword, req.Password); err != nil {
		respondAuthError(c, err, "failed update password")
		return
	}
	success(c, http.StatusOK, nil, "success update password")
}
