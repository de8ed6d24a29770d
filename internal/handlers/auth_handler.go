package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/middleware"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/railstation/train-station-backend/internal/utils"
	"github.com/railstation/train-station-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and token refresh
type AuthHandler struct {
	userRepo   *database.UserRepository
	tokenRepo  *database.RefreshTokenRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userRepo *database.UserRepository,
	tokenRepo *database.RefreshTokenRepository,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new user account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if req.FirstName != "" {
		user.FirstName = models.NullString{NullString: sql.NullString{String: req.FirstName, Valid: true}}
	}
	if req.LastName != "" {
		user.LastName = models.NullString{NullString: sql.NullString{String: req.LastName, Valid: true}}
	}

	if err := h.userRepo.Create(user); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues a token pair. The refresh
// token is persisted alongside the client device metadata.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		h.logger.WithField("email", req.Email).Warn("Login attempt for unknown email")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid email or password",
			"code":    "INVALID_CREDENTIALS",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WithField("user_id", user.ID).Warn("Login attempt with wrong password")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_credentials",
			"message": "Invalid email or password",
			"code":    "INVALID_CREDENTIALS",
		})
		return
	}

	pair, err := h.issueTokens(c, user)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh rotates a refresh token: the presented token is revoked and
// a fresh pair is issued. Reuse of a revoked token fails.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Invalid refresh token",
			"code":    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	usable, err := h.tokenRepo.IsUsable(req.RefreshToken)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	if !usable {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Refresh token is revoked or expired",
			"code":    "REVOKED_REFRESH_TOKEN",
		})
		return
	}

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	if err := h.tokenRepo.Revoke(req.RefreshToken); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	pair, err := h.issueTokens(c, user)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// GetProfile returns the authenticated user
// GET /api/v1/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	user, err := h.userRepo.GetByID(userCtx.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the caller's name fields
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	user, err := h.userRepo.UpdateProfile(userCtx.UserID, req.FirstName, req.LastName)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// issueTokens generates an access and refresh token pair and stores
// the refresh token hash with the request metadata.
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (*models.TokenPair, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	userAgent := c.Request.UserAgent()
	err = h.tokenRepo.Store(
		user.ID,
		refreshToken,
		utils.DeviceType(userAgent),
		userAgent,
		c.ClientIP(),
		time.Now().Add(h.jwtService.RefreshTokenExpiry()),
	)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}
