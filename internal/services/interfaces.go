package services

import (
	"context"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CourseUpdateRequest = validator.CourseUpdateRequest
type GradeUpdateRequest = validator.GradeUpdateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest

// ===== RESPONSE DTOs =====

type UserProfile struct {
	ID        int             `json:"id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	Email     string          `json:"email,omitempty"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	PhotoURL  *string         `json:"photo_url,omitempty"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// AvailableCourse is a level-matching course the student has not enrolled in
type AvailableCourse struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	ECTS        float64      `json:"ects"`
	Level       models.Level `json:"level"`
	TeacherName string       `json:"teacher_name"`
	Description string       `json:"description,omitempty"`
}

// EnrolledCourse is a course the student is enrolled in, with their grade
type EnrolledCourse struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	ECTS        float64      `json:"ects"`
	Level       models.Level `json:"level"`
	TeacherName string       `json:"teacher_name"`
	Description string       `json:"description,omitempty"`
	Score       float64      `json:"score"`
}

// CourseViews is the student-facing partition of level-matching courses
type CourseViews struct {
	Level     models.Level      `json:"level"`
	Available []AvailableCourse `json:"available"`
	Enrolled  []EnrolledCourse  `json:"enrolled"`
}

// GradesView holds a student's enrolled courses with the aggregate result
type GradesView struct {
	Courses    []EnrolledCourse `json:"courses"`
	FinalGrade float64          `json:"final_grade"`
	Passed     bool             `json:"passed"`
}

// CourseDetail is a course enriched with its resolved teacher name
type CourseDetail struct {
	*models.Course
	TeacherName string `json:"teacher_name"`
}

type CourseListResponse struct {
	Courses []*CourseDetail `json:"courses"`
	Total   int64           `json:"total"`
}

// TeacherCourse is a course owned by a teacher, with its enrollment count
type TeacherCourse struct {
	*models.Course
	EnrolledCount int64 `json:"enrolled_count"`
}

// RosterEntry is one student row in a course roster. Level is nil when the
// student has no StudentUser link.
type RosterEntry struct {
	StudentID int           `json:"student_id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Level     *models.Level `json:"level,omitempty"`
	Score     float64       `json:"score"`
}

type RosterResponse struct {
	Course  *models.Course `json:"course"`
	Entries []RosterEntry  `json:"entries"`
}

type StudentProfile struct {
	*models.Student
	Level    *models.Level `json:"level,omitempty"`
	Username string        `json:"username,omitempty"`
}

// StudentDashboard combines a student's profile with their grade summary
type StudentDashboard struct {
	Student *StudentProfile `json:"student"`
	Grades  *GradesView     `json:"grades"`
}

type StudentListResponse struct {
	Students []*StudentProfile `json:"students"`
	Total    int64             `json:"total"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID int) error
	RestoreLastUser(ctx context.Context) (*UserProfile, error)
	GetProfile(ctx context.Context, userID int) (*UserProfile, error)
	UpdatePhoto(ctx context.Context, userID int, photoURL string) error
}

type CourseService interface {
	Create(ctx context.Context, req *CourseCreateRequest, userID int) (*CourseDetail, error)
	Update(ctx context.Context, id int, req *CourseUpdateRequest, userID int) (*CourseDetail, error)
	Delete(ctx context.Context, id int, userID int) error
	GetByID(ctx context.Context, id int) (*CourseDetail, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	ListByTeacher(ctx context.Context, userID int) ([]*TeacherCourse, error)
}

type EnrollmentService interface {
	CourseViews(ctx context.Context, userID int) (*CourseViews, error)
	Enroll(ctx context.Context, userID, courseID int) error
	Unenroll(ctx context.Context, userID, courseID int) error
}

type GradingService interface {
	Roster(ctx context.Context, userID, courseID int) (*RosterResponse, error)
	UpdateGrade(ctx context.Context, userID, courseID, studentID int, score float64) error
	StudentGrades(ctx context.Context, userID int) (*GradesView, error)
}

type StudentService interface {
	Get(ctx context.Context, studentID int) (*StudentProfile, error)
	GetByUser(ctx context.Context, userID int) (*StudentProfile, error)
	Update(ctx context.Context, studentID int, req *StudentUpdateRequest, actorID int) (*StudentProfile, error)
	Delete(ctx context.Context, studentID int, actorID int) error
	List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error)
}

type ExportService interface {
	// ExportRoster renders a course roster to an xlsx workbook.
	ExportRoster(ctx context.Context, userID, courseID int) ([]byte, string, error)
}

type CourseFeedService interface {
	// Watch emits a fresh CourseViews snapshot whenever the course or
	// subscription tables change. The channel closes when ctx is cancelled.
	Watch(ctx context.Context, userID int) (<-chan *CourseViews, error)
}

// ServiceManager provides access to all services
type ServiceManager interface {
	Auth() AuthService
	Course() CourseService
	Enrollment() EnrollmentService
	Grading() GradingService
	Student() StudentService
	Export() ExportService
	CourseFeed() CourseFeedService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
