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

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Create stamps the authenticated teacher's Teacher.ID onto the new course.
// When the teacher record cannot be resolved the course is saved unassigned
// rather than failing the whole operation.
func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest, userID int) (*CourseDetail, error) {
	s.logger.Info("Creating course", "user_id", userID, "name", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	teacherID := 0
	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("teacher lookup failed: %w", err)
		}
		s.logger.Warn("No teacher record for course creator, saving unassigned", "user_id", userID)
	} else {
		teacherID = teacher.ID
	}

	var course *models.Course
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		courseID, err := txRepo.Sequence().Next(ctx, nil, models.SequenceCourses, 1)
		if err != nil {
			return fmt.Errorf("failed to allocate course id: %w", err)
		}

		course = &models.Course{
			ID:          courseID,
			Name:        req.Name,
			ECTS:        req.ECTS,
			Level:       models.Level(req.Level),
			TeacherID:   teacherID,
			Description: req.Description,
		}
		if err := txRepo.Course().Create(ctx, nil, course); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Course created", "course_id", course.ID, "teacher_id", teacherID)

	return s.detail(ctx, course)
}

// Update edits the course while preserving its original teacherID, so stale
// form state cannot transfer ownership.
func (s *courseService) Update(ctx context.Context, id int, req *CourseUpdateRequest, userID int) (*CourseDetail, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err, "course", id)
	}

	if err := s.checkOwnership(ctx, course, userID, "update"); err != nil {
		return nil, err
	}

	course.Name = req.Name
	course.ECTS = req.ECTS
	course.Level = models.Level(req.Level)
	course.Description = req.Description

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", course.ID, "user_id", userID)

	return s.detail(ctx, course)
}

// Delete removes the course and its subscriptions in one transaction, so no
// orphan enrollments survive.
func (s *courseService) Delete(ctx context.Context, id int, userID int) error {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return translateRepoError(err, "course", id)
	}

	if err := s.checkOwnership(ctx, course, userID, "delete"); err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Subscription().DeleteByCourse(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course subscriptions: %w", err)
		}
		if err := txRepo.Course().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Course deleted", "course_id", id, "user_id", userID)
	return nil
}

func (s *courseService) GetByID(ctx context.Context, id int) (*CourseDetail, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateRepoError(err, "course", id)
	}

	return s.detail(ctx, course)
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	teachers, users, err := loadTeacherLookups(ctx, s.repo, courses)
	if err != nil {
		return nil, err
	}

	details := make([]*CourseDetail, 0, len(courses))
	for _, course := range courses {
		details = append(details, &CourseDetail{
			Course:      course,
			TeacherName: teacherDisplayName(course.TeacherID, teachers, users),
		})
	}

	return &CourseListResponse{Courses: details, Total: total}, nil
}

// ListByTeacher returns the courses owned by the authenticated teacher with
// their enrollment counts.
func (s *courseService) ListByTeacher(ctx context.Context, userID int) ([]*TeacherCourse, error) {
	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return []*TeacherCourse{}, nil
		}
		return nil, err
	}

	courses, err := s.repo.Course().GetByTeacher(ctx, nil, teacher.ID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]int, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	counts, err := s.repo.Subscription().CountByCourses(ctx, nil, courseIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*TeacherCourse, 0, len(courses))
	for _, course := range courses {
		result = append(result, &TeacherCourse{
			Course:        course,
			EnrolledCount: counts[course.ID],
		})
	}

	return result, nil
}

// checkOwnership denies course mutations by teachers who do not own the
// course. Unassigned courses (teacherID 0) are open to any teacher.
func (s *courseService) checkOwnership(ctx context.Context, course *models.Course, userID int, action string) error {
	if course.TeacherID == 0 {
		return nil
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewPermissionError(userID, course.ID, "course", action, "no teacher record")
		}
		return err
	}

	if teacher.ID != course.TeacherID {
		return NewPermissionError(userID, course.ID, "course", action, "not the owning teacher")
	}

	return nil
}

func (s *courseService) detail(ctx context.Context, course *models.Course) (*CourseDetail, error) {
	teachers, users, err := loadTeacherLookups(ctx, s.repo, []*models.Course{course})
	if err != nil {
		return nil, err
	}

	return &CourseDetail{
		Course:      course,
		TeacherName: teacherDisplayName(course.TeacherID, teachers, users),
	}, nil
}
