package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// CourseViews partitions the level-matching courses for the authenticated
// student into available and enrolled, with resolved teacher names.
func (s *enrollmentService) CourseViews(ctx context.Context, userID int) (*CourseViews, error) {
	studentID, level, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.Course().GetByLevel(ctx, nil, level)
	if err != nil {
		return nil, err
	}

	var subscriptions []*models.Subscription
	if studentID >= 0 {
		subscriptions, err = s.repo.Subscription().GetByStudent(ctx, nil, studentID)
		if err != nil {
			return nil, err
		}
	}

	teachers, users, err := loadTeacherLookups(ctx, s.repo, courses)
	if err != nil {
		return nil, err
	}

	available, enrolled := PartitionCourses(courses, subscriptions, level, studentID, teachers, users)

	return &CourseViews{
		Level:     level,
		Available: available,
		Enrolled:  enrolled,
	}, nil
}

// Enroll subscribes the student to a level-matching course with no grade yet.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID int) error {
	studentID, level, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if studentID < 0 {
		return NewPermissionError(userID, courseID, "course", "enroll", "no student identity")
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		return translateRepoError(err, "course", courseID)
	}
	if course.Level != level {
		return NewPermissionError(userID, courseID, "course", "enroll", "course targets a different level of study")
	}

	if _, err := s.repo.Subscription().Get(ctx, nil, studentID, courseID); err == nil {
		return ErrAlreadyEnrolled
	} else if !repositories.IsNotFoundError(err) {
		return err
	}

	sub := &models.Subscription{StudentID: studentID, CourseID: courseID, Score: 0}
	if err := s.repo.Subscription().Upsert(ctx, nil, sub); err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}

	s.logger.Info("Student enrolled", "student_id", studentID, "course_id", courseID)
	return nil
}

// Unenroll removes the student's subscription, discarding any grade.
func (s *enrollmentService) Unenroll(ctx context.Context, userID, courseID int) error {
	studentID, _, err := s.resolve(ctx, userID)
	if err != nil {
		return err
	}
	if studentID < 0 {
		return NewPermissionError(userID, courseID, "course", "unenroll", "no student identity")
	}

	if err := s.repo.Subscription().Delete(ctx, nil, studentID, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("failed to unenroll: %w", err)
	}

	s.logger.Info("Student unenrolled", "student_id", studentID, "course_id", courseID)
	return nil
}

func (s *enrollmentService) resolve(ctx context.Context, userID int) (int, models.Level, error) {
	return resolveStudent(ctx, s.repo, userID)
}
