package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-scrud/enrollment-service/internal/services"
	"github.com/campus-scrud/enrollment-service/internal/utils"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

// StudentHandler serves the student-facing course and grade views.
type StudentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	gradingService    services.GradingService
	studentService    services.StudentService
	courseFeedService services.CourseFeedService
	validator         *validator.Validator
}

func NewStudentHandler(
	enrollmentService services.EnrollmentService,
	gradingService services.GradingService,
	studentService services.StudentService,
	courseFeedService services.CourseFeedService,
	validator *validator.Validator,
	logger utils.Logger,
) *StudentHandler {
	return &StudentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		gradingService:    gradingService,
		studentService:    studentService,
		courseFeedService: courseFeedService,
		validator:         validator,
	}
}

// GetCourseViews returns the caller's available/enrolled course partition
// @Summary Get course views
// @Description Level-matching courses split into available and enrolled
// @Tags students
// @Produce json
// @Success 200 {object} services.CourseViews
// @Router /students/me/courses [get]
func (h *StudentHandler) GetCourseViews(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	views, err := h.enrollmentService.CourseViews(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// StreamCourseViews streams course view snapshots as server-sent events.
// A snapshot is pushed immediately, then again whenever courses or
// enrollments change.
func (h *StudentHandler) StreamCourseViews(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Opening course view stream", "user_id", userID)

	feed, err := h.courseFeedService.Watch(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		views, open := <-feed
		if !open {
			return false
		}
		c.SSEvent("courses", views)
		return true
	})
}

// Enroll adds the caller to a course
// @Summary Enroll in course
// @Tags students
// @Param id path int true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/me/courses/{id} [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", courseID)

	if err := h.enrollmentService.Enroll(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Enrolled"})
}

// Unenroll removes the caller from a course
// @Summary Unenroll from course
// @Tags students
// @Param id path int true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/me/courses/{id} [delete]
func (h *StudentHandler) Unenroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Unenrolling from course", "course_id", courseID)

	if err := h.enrollmentService.Unenroll(c.Request.Context(), userID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Unenrolled"})
}

// GetGrades returns the caller's per-course grades and weighted final grade
// @Summary Get grades
// @Tags students
// @Produce json
// @Success 200 {object} services.GradesView
// @Router /students/me/grades [get]
func (h *StudentHandler) GetGrades(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	grades, err := h.gradingService.StudentGrades(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// GetDashboard returns the caller's profile together with their grade summary
// @Summary Get dashboard
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentDashboard
// @Router /students/me/dashboard [get]
func (h *StudentHandler) GetDashboard(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	profile, err := h.studentService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	grades, err := h.gradingService.StudentGrades(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.StudentDashboard{
		Student: profile,
		Grades:  grades,
	})
}

// UpdateProfile updates a student's personal details
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	studentID := h.parseIDParam(c, "id")
	if studentID == 0 {
		return
	}

	var req services.StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating student profile", "student_id", studentID)

	profile, err := h.studentService.Update(c.Request.Context(), studentID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns a student's profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	studentID := h.parseIDParam(c, "id")
	if studentID == 0 {
		return
	}

	profile, err := h.studentService.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
