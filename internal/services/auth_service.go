package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
	"github.com/campus-scrud/enrollment-service/internal/session"
	"github.com/campus-scrud/enrollment-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *TokenManager
	sessions  session.Store
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, tokens *TokenManager, sessions session.Store) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		sessions:  sessions,
	}
}

// Register creates the User plus the role-dependent rows (Student and
// StudentUser, or Teacher) in one transaction, so a partial failure leaves
// nothing behind.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering user", "username", req.Username, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	role := models.UserRole(req.Role)

	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, NewValidationError("date_of_birth must be formatted as 2006-01-02")
		}
		if errs := s.validator.GetBusinessValidator().ValidateDateOfBirth(parsed); len(errs) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
		}
		dob = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		taken, err := txRepo.User().ExistsByUsername(ctx, nil, req.Username)
		if err != nil {
			return fmt.Errorf("username check failed: %w", err)
		}
		if taken {
			return ErrDuplicateUsername
		}

		userID, err := txRepo.Sequence().Next(ctx, nil, models.SequenceUsers, 1)
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}

		user = &models.User{
			ID:           userID,
			Username:     req.Username,
			PasswordHash: string(hash),
			Role:         role,
			Email:        req.Email,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		}
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		switch role {
		case models.RoleStudent:
			return s.registerStudent(ctx, txRepo, user, req, dob)
		case models.RoleTeacher:
			return s.registerTeacher(ctx, txRepo, user, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return s.issueSession(ctx, user)
}

func (s *authService) registerStudent(ctx context.Context, txRepo repositories.Repository, user *models.User, req *RegisterRequest, dob time.Time) error {
	level := models.Level(req.Level)
	if !level.Valid() {
		// Missing or unknown level degrades to the lowest tier.
		level = models.LevelP1
	}

	studentID, err := txRepo.Sequence().Next(ctx, nil, models.SequenceStudents, 1)
	if err != nil {
		return fmt.Errorf("failed to allocate student id: %w", err)
	}

	student := &models.Student{
		ID:          studentID,
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		DateOfBirth: datatypes.Date(dob),
		Gender:      models.Gender(req.Gender),
	}
	if err := txRepo.Student().Create(ctx, nil, student); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	link := &models.StudentUser{
		UserID:       user.ID,
		StudentID:    studentID,
		LevelOfStudy: level,
	}
	if err := txRepo.StudentUser().Create(ctx, nil, link); err != nil {
		return fmt.Errorf("failed to link student to user: %w", err)
	}

	return nil
}

func (s *authService) registerTeacher(ctx context.Context, txRepo repositories.Repository, user *models.User, req *RegisterRequest) error {
	teacherID, err := txRepo.Sequence().Next(ctx, nil, models.SequenceTeachers, 1)
	if err != nil {
		return fmt.Errorf("failed to allocate teacher id: %w", err)
	}

	teacher := &models.Teacher{
		ID:             teacherID,
		UserID:         user.ID,
		Department:     req.Department,
		Specialization: req.Specialization,
	}
	if err := txRepo.Teacher().Create(ctx, nil, teacher); err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return s.issueSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID int) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("User logged out", "user_id", userID)
	return nil
}

// RestoreLastUser returns the profile of the last signed-in user, if any.
func (s *authService) RestoreLastUser(ctx context.Context) (*UserProfile, error) {
	userID, err := s.sessions.RestoreLastUser(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

func (s *authService) GetProfile(ctx context.Context, userID int) (*UserProfile, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, translateRepoError(err, "user", userID)
	}

	profile := profileFromUser(user)
	return &profile, nil
}

func (s *authService) UpdatePhoto(ctx context.Context, userID int, photoURL string) error {
	if err := s.repo.User().UpdatePhotoURL(ctx, nil, userID, photoURL); err != nil {
		return translateRepoError(err, "user", userID)
	}
	return nil
}

func (s *authService) issueSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveLastUser(ctx, user.ID); err != nil {
		// Session persistence is best effort; the token already grants access.
		s.logger.Warn("Failed to save session", "error", err, "user_id", user.ID)
	}

	return &AuthResponse{
		Token: token,
		User:  profileFromUser(user),
	}, nil
}

func profileFromUser(user *models.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		PhotoURL:  user.PhotoURL,
	}
}
