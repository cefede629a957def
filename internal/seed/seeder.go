package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

// Seeder inserts a small demo dataset: two students, two teachers, four
// courses and a handful of graded enrollments. Running it twice is a no-op.
type Seeder struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSeeder(repo repositories.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

// Seed populates the database with sample data unless it is already present.
func (s *Seeder) Seed(ctx context.Context) error {
	exists, err := s.repo.User().ExistsByUsername(ctx, nil, "student1")
	if err != nil {
		return fmt.Errorf("failed to check for existing sample data: %w", err)
	}
	if exists {
		s.logger.Debug("Sample data already present, skipping seed")
		return nil
	}

	s.logger.Info("Seeding sample data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash sample password: %w", err)
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		users := []*models.User{
			{ID: 1, Username: "student1", PasswordHash: string(hash), Role: models.RoleStudent, Email: "student1@university.edu", FirstName: "Alice", LastName: "Johnson"},
			{ID: 2, Username: "student2", PasswordHash: string(hash), Role: models.RoleStudent, Email: "student2@university.edu", FirstName: "Bob", LastName: "Smith"},
			{ID: 3, Username: "teacher1", PasswordHash: string(hash), Role: models.RoleTeacher, Email: "teacher1@university.edu", FirstName: "Sarah", LastName: "Wilson"},
			{ID: 4, Username: "teacher2", PasswordHash: string(hash), Role: models.RoleTeacher, Email: "teacher2@university.edu", FirstName: "Michael", LastName: "Brown"},
		}
		for _, u := range users {
			if err := txRepo.User().Create(ctx, nil, u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
		}

		dob := datatypes.Date(time.Date(2002, time.March, 15, 0, 0, 0, 0, time.UTC))
		students := []*models.Student{
			{ID: 1001, LastName: "Johnson", FirstName: "Alice", DateOfBirth: dob, Gender: models.GenderFemale},
			{ID: 1002, LastName: "Smith", FirstName: "Bob", DateOfBirth: dob, Gender: models.GenderMale},
		}
		for _, st := range students {
			if err := txRepo.Student().Create(ctx, nil, st); err != nil {
				return fmt.Errorf("failed to seed student %d: %w", st.ID, err)
			}
		}

		links := []*models.StudentUser{
			{UserID: 1, StudentID: 1001, LevelOfStudy: models.LevelP1},
			{UserID: 2, StudentID: 1002, LevelOfStudy: models.LevelP2},
		}
		for _, link := range links {
			if err := txRepo.StudentUser().Create(ctx, nil, link); err != nil {
				return fmt.Errorf("failed to seed student link %d: %w", link.StudentID, err)
			}
		}

		teachers := []*models.Teacher{
			{ID: 3, UserID: 3, Department: "Computer Science", Specialization: "Software Engineering"},
			{ID: 4, UserID: 4, Department: "Mathematics", Specialization: "Applied Mathematics"},
		}
		for _, tc := range teachers {
			if err := txRepo.Teacher().Create(ctx, nil, tc); err != nil {
				return fmt.Errorf("failed to seed teacher %d: %w", tc.ID, err)
			}
		}

		courses := []*models.Course{
			{ID: 1, Name: "Introduction to Programming", ECTS: 6, Level: models.LevelP1, TeacherID: 3, Description: "Learn the fundamentals of programming."},
			{ID: 2, Name: "Data Structures and Algorithms", ECTS: 8, Level: models.LevelP2, TeacherID: 3, Description: "Advanced programming concepts and algorithm design."},
			{ID: 3, Name: "Calculus I", ECTS: 6, Level: models.LevelP1, TeacherID: 4, Description: "Introduction to differential and integral calculus."},
			{ID: 4, Name: "Linear Algebra", ECTS: 5, Level: models.LevelP2, TeacherID: 4, Description: "Vector spaces, linear transformations, and eigenvalues."},
		}
		for _, course := range courses {
			if err := txRepo.Course().Create(ctx, nil, course); err != nil {
				return fmt.Errorf("failed to seed course %s: %w", course.Name, err)
			}
		}

		subscriptions := []*models.Subscription{
			{StudentID: 1001, CourseID: 1, Score: 14.5},
			{StudentID: 1001, CourseID: 3, Score: 11.8},
			{StudentID: 1002, CourseID: 2, Score: 15.2},
			{StudentID: 1002, CourseID: 4, Score: 12.0},
		}
		for _, sub := range subscriptions {
			if err := txRepo.Subscription().Upsert(ctx, nil, sub); err != nil {
				return fmt.Errorf("failed to seed enrollment %d/%d: %w", sub.StudentID, sub.CourseID, err)
			}
		}

		// Keep generated IDs clear of the explicitly assigned ones.
		sequences := map[string]int{
			models.SequenceUsers:    5,
			models.SequenceStudents: 1003,
			models.SequenceTeachers: 5,
			models.SequenceCourses:  5,
		}
		for name, next := range sequences {
			if err := txRepo.Sequence().EnsureAtLeast(ctx, nil, name, next); err != nil {
				return fmt.Errorf("failed to advance sequence %s: %w", name, err)
			}
		}

		return nil
	})
}
