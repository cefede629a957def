package services

import (
	"testing"

	"github.com/campus-scrud/enrollment-service/internal/models"
)

func TestAssembleRoster(t *testing.T) {
	subs := []*models.Subscription{
		{StudentID: 1, CourseID: 100, Score: 12},
		{StudentID: 2, CourseID: 100, Score: 0},
		{StudentID: 3, CourseID: 100, Score: 18},
		{StudentID: 1, CourseID: 200, Score: 9},
	}
	students := map[int]*models.Student{
		1: {ID: 1, FirstName: "Alice", LastName: "Martin"},
		2: {ID: 2, FirstName: "Bob", LastName: "Durand"},
		3: {ID: 3, FirstName: "Chloe", LastName: "Petit"},
	}
	links := map[int]*models.StudentUser{
		1: {StudentID: 1, LevelOfStudy: models.LevelB1},
		3: {StudentID: 3, LevelOfStudy: models.LevelB2},
	}

	roster := AssembleRoster(100, subs, students, links)

	if len(roster) != 3 {
		t.Fatalf("roster has %d rows, want 3", len(roster))
	}

	byID := map[int]RosterEntry{}
	for _, e := range roster {
		byID[e.StudentID] = e
	}

	if byID[1].Score != 12 || byID[2].Score != 0 || byID[3].Score != 18 {
		t.Errorf("wrong scores in roster: %+v", byID)
	}
	if byID[1].Level == nil || *byID[1].Level != models.LevelB1 {
		t.Errorf("student 1 level = %v, want B1", byID[1].Level)
	}
	if byID[2].Level != nil {
		t.Errorf("student 2 has no link, level should be nil, got %v", *byID[2].Level)
	}
}

func TestAssembleRosterDropsMissingStudents(t *testing.T) {
	subs := []*models.Subscription{
		{StudentID: 1, CourseID: 100, Score: 12},
		{StudentID: 99, CourseID: 100, Score: 7}, // no student record
	}
	students := map[int]*models.Student{
		1: {ID: 1, FirstName: "Alice", LastName: "Martin"},
	}

	roster := AssembleRoster(100, subs, students, nil)

	if len(roster) != 1 || roster[0].StudentID != 1 {
		t.Errorf("roster = %+v, want only student 1", roster)
	}
}

func TestAssembleRosterShrinksAfterUnenroll(t *testing.T) {
	students := map[int]*models.Student{
		1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3},
	}
	subs := []*models.Subscription{
		{StudentID: 1, CourseID: 100},
		{StudentID: 2, CourseID: 100},
		{StudentID: 3, CourseID: 100},
	}

	if got := len(AssembleRoster(100, subs, students, nil)); got != 3 {
		t.Fatalf("roster has %d rows, want 3", got)
	}

	// Recomputing over the snapshot without student 2 drops their row.
	remaining := []*models.Subscription{subs[0], subs[2]}
	if got := len(AssembleRoster(100, remaining, students, nil)); got != 2 {
		t.Errorf("roster has %d rows after unenroll, want 2", got)
	}
}
