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

type gradingService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradingService(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Roster returns the enrolled students of a course the teacher owns, with
// names, level of study and current grade.
func (s *gradingService) Roster(ctx context.Context, userID, courseID int) (*RosterResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, translateRepoError(err, "course", courseID)
	}

	if err := s.checkCourseAccess(ctx, course, userID, "view_roster"); err != nil {
		return nil, err
	}

	subscriptions, err := s.repo.Subscription().GetByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]int, 0, len(subscriptions))
	for _, sub := range subscriptions {
		studentIDs = append(studentIDs, sub.StudentID)
	}

	studentRows, err := s.repo.Student().GetByIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, err
	}
	students := make(map[int]*models.Student, len(studentRows))
	for _, st := range studentRows {
		students[st.ID] = st
	}

	linkRows, err := s.repo.StudentUser().GetByStudentIDs(ctx, nil, studentIDs)
	if err != nil {
		return nil, err
	}
	links := make(map[int]*models.StudentUser, len(linkRows))
	for _, link := range linkRows {
		links[link.StudentID] = link
	}

	return &RosterResponse{
		Course:  course,
		Entries: AssembleRoster(courseID, subscriptions, students, links),
	}, nil
}

// UpdateGrade sets or overwrites a student's score for a course. Grading a
// student who is not enrolled enrolls them with the given score; this
// enroll-and-grade behavior is intentional.
func (s *gradingService) UpdateGrade(ctx context.Context, userID, courseID, studentID int, score float64) error {
	if score < models.GradeMin || score > models.GradeMax {
		return fmt.Errorf("%w: score %g outside [%g, %g]", ErrInvalidGrade, score, models.GradeMin, models.GradeMax)
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		return translateRepoError(err, "course", courseID)
	}

	if err := s.checkCourseAccess(ctx, course, userID, "grade"); err != nil {
		return err
	}

	if _, err := s.repo.Subscription().Get(ctx, nil, studentID, courseID); err != nil {
		if !repositories.IsNotFoundError(err) {
			return err
		}
		s.logger.Info("Grading student with no prior enrollment, enrolling",
			"student_id", studentID, "course_id", courseID)
	}

	sub := &models.Subscription{StudentID: studentID, CourseID: courseID, Score: score}
	if err := s.repo.Subscription().Upsert(ctx, nil, sub); err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}

	s.logger.Info("Grade updated", "student_id", studentID, "course_id", courseID, "score", score)
	return nil
}

// StudentGrades returns every course the student is subscribed to with their
// weighted final grade and pass determination. Unlike the course views, this
// does not filter by the student's current level: an enrollment created by
// grading into another level still counts.
func (s *gradingService) StudentGrades(ctx context.Context, userID int) (*GradesView, error) {
	studentID, _, err := resolveStudent(ctx, s.repo, userID)
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

	courseIDs := make([]int, 0, len(subscriptions))
	scores := make(map[int]float64, len(subscriptions))
	for _, sub := range subscriptions {
		courseIDs = append(courseIDs, sub.CourseID)
		scores[sub.CourseID] = sub.Score
	}

	courses, err := s.repo.Course().GetByIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, err
	}

	teachers, users, err := loadTeacherLookups(ctx, s.repo, courses)
	if err != nil {
		return nil, err
	}

	enrolled := make([]EnrolledCourse, 0, len(courses))
	graded := make([]GradedEnrollment, 0, len(courses))
	for _, course := range courses {
		score := scores[course.ID]
		enrolled = append(enrolled, EnrolledCourse{
			ID:          course.ID,
			Name:        course.Name,
			ECTS:        course.ECTS,
			Level:       course.Level,
			TeacherName: teacherDisplayName(course.TeacherID, teachers, users),
			Description: course.Description,
			Score:       score,
		})
		graded = append(graded, GradedEnrollment{ECTS: course.ECTS, Score: score})
	}

	finalGrade := WeightedFinalGrade(graded)

	return &GradesView{
		Courses:    enrolled,
		FinalGrade: finalGrade,
		Passed:     Passed(finalGrade),
	}, nil
}

// checkCourseAccess denies grading operations on courses the teacher does
// not own. Unassigned courses are open to any teacher.
func (s *gradingService) checkCourseAccess(ctx context.Context, course *models.Course, userID int, action string) error {
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
