package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Search    string           `json:"search"` // matches username, first or last name
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "id", "username", "created_at"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	Level     *models.Level `json:"level"`
	TeacherID *int          `json:"teacher_id"`
	Search    string        `json:"search"` // matches course name
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
	SortBy    string        `json:"sort_by"`    // "id", "name", "ects", "created_at"
	SortOrder string        `json:"sort_order"` // "asc", "desc"
}

type StudentFilters struct {
	Search    string `json:"search"` // matches first or last name
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ===== ENTITY REPOSITORIES =====
//
// All methods accept an optional *gorm.DB transaction handle; nil means the
// repository's own connection is used.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdatePhotoURL(ctx context.Context, tx *gorm.DB, id int, photoURL string) error
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Student, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
}

type StudentUserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.StudentUser) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int) (*models.StudentUser, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID int) (*models.StudentUser, error)
	GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []int) ([]*models.StudentUser, error)
	UpdateLevel(ctx context.Context, tx *gorm.DB, studentID int, level models.Level) error
}

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID int) (*models.Teacher, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Teacher, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Teacher, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	GetByLevel(ctx context.Context, tx *gorm.DB, level models.Level) ([]*models.Course, error)
	GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID int) ([]*models.Course, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id int) (bool, error)
}

type SubscriptionRepository interface {
	// Upsert inserts the subscription or, when the (student, course) pair
	// already exists, updates its score.
	Upsert(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error
	Get(ctx context.Context, tx *gorm.DB, studentID, courseID int) (*models.Subscription, error)
	Delete(ctx context.Context, tx *gorm.DB, studentID, courseID int) error
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID int) ([]*models.Subscription, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID int) ([]*models.Subscription, error)
	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID int) error
	DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID int) error
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID int) (int64, error)
	CountByCourses(ctx context.Context, tx *gorm.DB, courseIDs []int) (map[int]int64, error)
}

// SequenceRepository allocates monotonically increasing identifiers for
// entities whose IDs are assigned by the service.
type SequenceRepository interface {
	// Next returns the next identifier for the named sequence, starting at
	// start when the sequence does not exist yet.
	Next(ctx context.Context, tx *gorm.DB, name string, start int) (int, error)

	// EnsureAtLeast raises the sequence so the next allocation is >= next.
	// Used after seeding rows with explicit identifiers.
	EnsureAtLeast(ctx context.Context, tx *gorm.DB, name string, next int) error
}
