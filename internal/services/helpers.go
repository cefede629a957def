package services

import (
	"context"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

// loadTeacherLookups batch-loads the teachers and users referenced by a set
// of courses, keyed for the display-name resolver.
func loadTeacherLookups(ctx context.Context, repo repositories.Repository, courses []*models.Course) (map[int]*models.Teacher, map[int]*models.User, error) {
	teacherIDs := make([]int, 0, len(courses))
	seen := map[int]bool{}
	for _, c := range courses {
		if c.TeacherID > 0 && !seen[c.TeacherID] {
			seen[c.TeacherID] = true
			teacherIDs = append(teacherIDs, c.TeacherID)
		}
	}

	teacherRows, err := repo.Teacher().GetByIDs(ctx, nil, teacherIDs)
	if err != nil {
		return nil, nil, err
	}

	teachers := make(map[int]*models.Teacher, len(teacherRows))
	userIDs := make([]int, 0, len(teacherRows))
	for _, t := range teacherRows {
		teachers[t.ID] = t
		userIDs = append(userIDs, t.UserID)
	}

	userRows, err := repo.User().GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, nil, err
	}

	users := make(map[int]*models.User, len(userRows))
	for _, u := range userRows {
		users[u.ID] = u
	}

	return teachers, users, nil
}

// resolveStudent maps an authenticated user to their student identity. A
// missing link degrades to the sentinel student (-1) at the lowest level, so
// views render as "nothing enrolled" instead of erroring.
func resolveStudent(ctx context.Context, repo repositories.Repository, userID int) (studentID int, level models.Level, err error) {
	link, err := repo.StudentUser().GetByUserID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return -1, models.LevelP1, nil
		}
		return 0, "", err
	}
	return link.StudentID, link.LevelOfStudy, nil
}
