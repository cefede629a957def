package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-scrud/enrollment-service/internal/repositories"
	"github.com/campus-scrud/enrollment-service/internal/services"
	"github.com/campus-scrud/enrollment-service/internal/utils"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

// TeacherHandler serves the teacher-facing course, roster and grading views.
type TeacherHandler struct {
	BaseHandler
	courseService  services.CourseService
	gradingService services.GradingService
	studentService services.StudentService
	exportService  services.ExportService
	validator      *validator.Validator
}

func NewTeacherHandler(
	courseService services.CourseService,
	gradingService services.GradingService,
	studentService services.StudentService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler:    NewBaseHandler(logger),
		courseService:  courseService,
		gradingService: gradingService,
		studentService: studentService,
		exportService:  exportService,
		validator:      validator,
	}
}

// MyCourses returns the caller's courses with enrollment counts
// @Summary List own courses
// @Tags teachers
// @Produce json
// @Success 200 {array} services.TeacherCourse
// @Router /teachers/me/courses [get]
func (h *TeacherHandler) MyCourses(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListByTeacher(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetRoster returns the enrolled students of a course with their grades
// @Summary Get course roster
// @Tags teachers
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.RosterResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/courses/{id}/roster [get]
func (h *TeacherHandler) GetRoster(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	roster, err := h.gradingService.Roster(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// UpdateGrade records a student's grade for a course. Grading a student who
// is not enrolled enrolls them.
// @Summary Update grade
// @Tags teachers
// @Accept json
// @Param id path int true "Course ID"
// @Param student_id path int true "Student ID"
// @Param grade body services.GradeUpdateRequest true "Grade data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /teachers/courses/{id}/grades/{student_id} [put]
func (h *TeacherHandler) UpdateGrade(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var req services.GradeUpdateRequest
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

	h.LogRequest(c, "Updating grade", "course_id", courseID, "student_id", studentID, "score", req.Score)

	err := h.gradingService.UpdateGrade(c.Request.Context(), userID, courseID, studentID, req.Score)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Grade updated"})
}

// ExportRoster downloads the course roster as an xlsx workbook
// @Summary Export course roster
// @Tags teachers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Course ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /teachers/courses/{id}/roster/export [get]
func (h *TeacherHandler) ExportRoster(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting roster", "course_id", courseID)

	data, filename, err := h.exportService.ExportRoster(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ListStudents lists students with optional filters
func (h *TeacherHandler) ListStudents(c *gin.Context) {
	filters := repositories.StudentFilters{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filters.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			filters.Offset = offset
		}
	}

	students, err := h.studentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// DeleteStudent removes a student and their enrollments
// @Summary Delete student
// @Tags teachers
// @Param id path int true "Student ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/students/{id} [delete]
func (h *TeacherHandler) DeleteStudent(c *gin.Context) {
	studentID := h.parseIDParam(c, "id")
	if studentID == 0 {
		return
	}

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting student", "student_id", studentID)

	if err := h.studentService.Delete(c.Request.Context(), studentID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student deleted"})
}
