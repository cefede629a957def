package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-scrud/enrollment-service/internal/config"
	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/services"
	"github.com/campus-scrud/enrollment-service/internal/utils"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	courseHandler  *CourseHandler
	studentHandler *StudentHandler
	teacherHandler *TeacherHandler
	authMiddleware *JWTAuthMiddleware
	mediaDir       string
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	tokens *services.TokenManager,
	cfg *config.Config,
) *HandlerManager {
	return &HandlerManager{
		authHandler:   NewAuthHandler(serviceManager.Auth(), validator, logger, cfg.MediaDir),
		courseHandler: NewCourseHandler(serviceManager.Course(), validator, logger),
		studentHandler: NewStudentHandler(
			serviceManager.Enrollment(),
			serviceManager.Grading(),
			serviceManager.Student(),
			serviceManager.CourseFeed(),
			validator,
			logger,
		),
		teacherHandler: NewTeacherHandler(
			serviceManager.Course(),
			serviceManager.Grading(),
			serviceManager.Student(),
			serviceManager.Export(),
			validator,
			logger,
		),
		authMiddleware: NewJWTAuthMiddleware(tokens),
		mediaDir:       cfg.MediaDir,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Uploaded profile photos
	router.Static("/media", hm.mediaDir)

	v1 := router.Group("/api/v1")
	{
		// Public auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/session", hm.authHandler.RestoreSession)

			// Authenticated auth routes
			me := auth.Group("")
			me.Use(hm.authMiddleware.AuthMiddleware())
			{
				me.POST("/logout", hm.authHandler.Logout)
				me.GET("/me", hm.authHandler.Me)
				me.POST("/me/photo", hm.authHandler.UploadPhoto)
			}
		}

		// Course routes
		courses := v1.Group("/courses")
		courses.Use(hm.authMiddleware.AuthMiddleware())
		{
			// View courses - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Create/modify courses - teachers only
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.DeleteCourse)
		}

		// Student routes - students only
		students := v1.Group("/students")
		students.Use(hm.authMiddleware.AuthMiddleware())
		{
			me := students.Group("/me")
			me.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
			{
				me.GET("/courses", hm.studentHandler.GetCourseViews)
				me.GET("/courses/stream", hm.studentHandler.StreamCourseViews)
				me.POST("/courses/:id", hm.studentHandler.Enroll)
				me.DELETE("/courses/:id", hm.studentHandler.Unenroll)
				me.GET("/grades", hm.studentHandler.GetGrades)
				me.GET("/dashboard", hm.studentHandler.GetDashboard)
			}

			// Profile routes - a student may edit their own profile, a
			// teacher anyone's; the service enforces the distinction
			students.GET("/:id", hm.studentHandler.GetProfile)
			students.PUT("/:id", hm.studentHandler.UpdateProfile)
		}

		// Teacher routes - teachers only
		teachers := v1.Group("/teachers")
		teachers.Use(hm.authMiddleware.AuthMiddleware())
		teachers.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			teachers.GET("/me/courses", hm.teacherHandler.MyCourses)
			teachers.GET("/courses/:id/roster", hm.teacherHandler.GetRoster)
			teachers.GET("/courses/:id/roster/export", hm.teacherHandler.ExportRoster)
			teachers.PUT("/courses/:id/grades/:student_id", hm.teacherHandler.UpdateGrade)
			teachers.GET("/students", hm.teacherHandler.ListStudents)
			teachers.DELETE("/students/:id", hm.teacherHandler.DeleteStudent)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "enrollment-service",
		})
	})
}
