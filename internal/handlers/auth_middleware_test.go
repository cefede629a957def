package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/services"
	"github.com/campus-scrud/enrollment-service/internal/utils"
)

func newTestRouter(tokens *services.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	m := NewJWTAuthMiddleware(tokens)

	protected := router.Group("/protected")
	protected.Use(m.AuthMiddleware())
	{
		protected.GET("/any", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
		})

		teacherOnly := protected.Group("/teacher")
		teacherOnly.Use(m.RequireRoleMiddleware(models.RoleTeacher))
		teacherOnly.GET("", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	return router
}

func issueToken(t *testing.T, tokens *services.TokenManager, role models.UserRole) string {
	t.Helper()
	token, err := tokens.Generate(&models.User{ID: 7, Username: "someone", Role: role})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + issueToken(t, tokens, models.RoleStudent),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected/any", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	tokens := services.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	forged := issueToken(t, services.NewTokenManager("other-secret", time.Hour), models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/protected/any", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRoleMiddleware(t *testing.T) {
	tokens := services.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	tests := []struct {
		name       string
		role       models.UserRole
		wantStatus int
	}{
		{"teacher allowed", models.RoleTeacher, http.StatusOK},
		{"student denied", models.RoleStudent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected/teacher", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, tt.role))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(utils.NoopLogger{})

	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.NewValidationError("name is required"), http.StatusBadRequest},
		{fmt.Errorf("update: %w", services.ErrInvalidGrade), http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.NewNotFoundError("course", 42), http.StatusNotFound},
		{services.ErrDuplicateUsername, http.StatusConflict},
		{services.ErrAlreadyEnrolled, http.StatusConflict},
		{services.ErrNotEnrolled, http.StatusConflict},
		{fmt.Errorf("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleServiceError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
