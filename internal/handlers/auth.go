package handlers

import (
	"net/http"

	"github.com/emsteam/ems-api/internal/dto"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Signup registers a new employee.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if !bindJSON(c, &req, map[string]error{
		"Email":    services.ErrSignupFieldsRequired,
		"Password": services.ErrSignupFieldsRequired,
	}) {
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"user":    dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req, map[string]error{
		"Email":    services.ErrLoginFieldsRequired,
		"Password": services.ErrLoginFieldsRequired,
	}) {
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message:  "Login successful",
		Token:    result.Token,
		Username: result.User.Username,
		Role:     string(result.User.Role),
	})
}

// GoogleLogin exchanges a Google ID token for a bearer token.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	type GoogleLoginRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req GoogleLoginRequest
	if !bindJSON(c, &req, map[string]error{"Token": services.ErrFederatedTokenRequired}) {
		return
	}

	result, err := h.authService.FederatedLogin(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message:  "Google login successful",
		Token:    result.Token,
		Username: result.User.Username,
		Role:     string(result.User.Role),
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
