package services

import (
	"github.com/campus-scrud/enrollment-service/internal/models"
)

// AssembleRoster builds the roster for one course from snapshots of the
// subscription table and student lookups. Subscriptions whose student record
// is missing are dropped, since the row cannot be completed; a missing
// StudentUser link only leaves the level unknown. Rows follow the input
// order of subscriptions.
func AssembleRoster(
	courseID int,
	subscriptions []*models.Subscription,
	students map[int]*models.Student,
	links map[int]*models.StudentUser,
) []RosterEntry {
	entries := []RosterEntry{}

	for _, sub := range subscriptions {
		if sub.CourseID != courseID {
			continue
		}

		student, ok := students[sub.StudentID]
		if !ok || student == nil {
			continue
		}

		entry := RosterEntry{
			StudentID: student.ID,
			FirstName: student.FirstName,
			LastName:  student.LastName,
			Score:     sub.Score,
		}
		if link, ok := links[sub.StudentID]; ok && link != nil {
			level := link.LevelOfStudy
			entry.Level = &level
		}

		entries = append(entries, entry)
	}

	return entries
}
