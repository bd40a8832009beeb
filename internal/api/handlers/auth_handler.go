// Package handlers implements the Gin HTTP handlers of the valuation API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/art-pro/valuation-backend/internal/auth"
	"github.com/art-pro/valuation-backend/internal/config"
	"github.com/art-pro/valuation-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AuthHandler handles login and password management requests.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
}

// Login authenticates a user and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		h.logger.Error().Err(err).Msg("Failed to look up user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process login"})
		return
	}

	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, h.cfg.JWTSecret)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process login"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Username: user.Username, UserID: user.ID})
}

// ChangePasswordRequest is the password update payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword updates the authenticated user's password after verifying
// the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current and new password (min 8 characters) are required"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		h.logger.Error().Err(err).Msg("Failed to load user for password change")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	if err := auth.CheckPassword(user.Password, req.CurrentPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to hash new password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	user.Password = hashed
	if err := h.db.Save(&user).Error; err != nil {
		h.logger.Error().Err(err).Msg("Failed to save new password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
