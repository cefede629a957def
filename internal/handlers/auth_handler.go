package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campus-scrud/enrollment-service/internal/services"
	"github.com/campus-scrud/enrollment-service/internal/utils"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	validator   *validator.Validator
	mediaDir    string
}

func NewAuthHandler(
	authService services.AuthService,
	validator *validator.Validator,
	logger utils.Logger,
	mediaDir string,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   validator,
		mediaDir:    mediaDir,
	}
}

// Register creates a new account
// @Summary Register account
// @Description Creates a student or teacher account and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param account body services.RegisterRequest true "Account data"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering account", "username", req.Username, "role", req.Role)

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user
// @Summary Log in
// @Description Verifies credentials and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout ends the caller's remembered session
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// RestoreSession returns the profile of the last remembered user
// @Summary Restore session
// @Description Returns the last logged-in user, for automatic sign-in
// @Tags auth
// @Produce json
// @Success 200 {object} services.UserProfile
// @Failure 401 {object} ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) RestoreSession(c *gin.Context) {
	profile, err := h.authService.RestoreLastUser(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPhoto stores a profile photo and records its URL on the account
// @Summary Upload profile photo
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo file"
// @Success 200 {object} services.UserProfile
// @Failure 400 {object} ErrorResponse
// @Router /auth/me/photo [post]
func (h *AuthHandler) UploadPhoto(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing photo file",
			Details: err.Error(),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported photo format",
			Details: "allowed extensions: .jpg, .jpeg, .png, .webp",
		})
		return
	}

	filename := uuid.New().String() + ext
	dst := filepath.Join(h.mediaDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.LogError(c, err, "Failed to store uploaded photo", "user_id", userID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store photo",
		})
		return
	}

	photoURL := "/media/" + filename
	if err := h.authService.UpdatePhoto(c.Request.Context(), userID, photoURL); err != nil {
		h.handleServiceError(c, err)
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
