package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *studentService) Get(ctx context.Context, studentID int) (*StudentProfile, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, translateRepoError(err, "student", studentID)
	}

	return s.profile(ctx, student), nil
}

// GetByUser resolves the student record behind a user account.
func (s *studentService) GetByUser(ctx context.Context, userID int) (*StudentProfile, error) {
	link, err := s.repo.StudentUser().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: no student identity for user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	return s.Get(ctx, link.StudentID)
}

func (s *studentService) Update(ctx context.Context, studentID int, req *StudentUpdateRequest, actorID int) (*StudentProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	if err := s.checkActor(ctx, actorID, studentID, "update"); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, translateRepoError(err, "student", studentID)
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	if req.Gender != "" {
		student.Gender = models.Gender(req.Gender)
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, NewValidationError("date_of_birth must be formatted as 2006-01-02")
		}
		student.DateOfBirth = datatypes.Date(dob)
	}

	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	if req.Level != "" {
		if err := s.repo.StudentUser().UpdateLevel(ctx, nil, studentID, models.Level(req.Level)); err != nil {
			if !repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("failed to update level: %w", err)
			}
			s.logger.Warn("Student has no user link, level not updated", "student_id", studentID)
		}
	}

	s.logger.Info("Student updated", "student_id", studentID, "actor_id", actorID)

	return s.profile(ctx, student), nil
}

// Delete removes the student, their user link and all their enrollments in
// one transaction. The User account survives.
func (s *studentService) Delete(ctx context.Context, studentID int, actorID int) error {
	actor, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		return translateRepoError(err, "user", actorID)
	}
	if actor.Role != models.RoleTeacher {
		return NewPermissionError(actorID, studentID, "student", "delete", "teacher role required")
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Subscription().DeleteByStudent(ctx, nil, studentID); err != nil {
			return fmt.Errorf("failed to delete student enrollments: %w", err)
		}
		if err := txRepo.Student().Delete(ctx, nil, studentID); err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("student", studentID)
			}
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Student deleted", "student_id", studentID, "actor_id", actorID)
	return nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error) {
	students, total, err := s.repo.Student().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]int, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}
	links, err := s.repo.StudentUser().GetByStudentIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, err
	}
	linkByStudent := make(map[int]*models.StudentUser, len(links))
	for _, link := range links {
		linkByStudent[link.StudentID] = link
	}

	profiles := make([]*StudentProfile, 0, len(students))
	for _, st := range students {
		profile := &StudentProfile{Student: st}
		if link, ok := linkByStudent[st.ID]; ok {
			level := link.LevelOfStudy
			profile.Level = &level
		}
		profiles = append(profiles, profile)
	}

	return &StudentListResponse{Students: profiles, Total: total}, nil
}

// checkActor permits students to edit themselves and teachers to edit anyone.
func (s *studentService) checkActor(ctx context.Context, actorID, studentID int, action string) error {
	actor, err := s.repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		return translateRepoError(err, "user", actorID)
	}
	if actor.Role == models.RoleTeacher {
		return nil
	}

	link, err := s.repo.StudentUser().GetByUserID(ctx, nil, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewPermissionError(actorID, studentID, "student", action, "no student identity")
		}
		return err
	}
	if link.StudentID != studentID {
		return NewPermissionError(actorID, studentID, "student", action, "students may only edit themselves")
	}

	return nil
}

func (s *studentService) profile(ctx context.Context, student *models.Student) *StudentProfile {
	profile := &StudentProfile{Student: student}

	link, err := s.repo.StudentUser().GetByStudentID(ctx, nil, student.ID)
	if err != nil {
		// Missing link only leaves the level unknown.
		return profile
	}
	level := link.LevelOfStudy
	profile.Level = &level

	if user, err := s.repo.User().GetByID(ctx, nil, link.UserID); err == nil {
		profile.Username = user.Username
	}

	return profile
}
