package services

import (
	"testing"

	"github.com/campus-scrud/enrollment-service/internal/models"
)

func testCourses() []*models.Course {
	return []*models.Course{
		{ID: 1, Name: "Algebra", ECTS: 6, Level: models.LevelB1, TeacherID: 10},
		{ID: 2, Name: "Analysis", ECTS: 9, Level: models.LevelB1, TeacherID: 11},
		{ID: 3, Name: "Databases", ECTS: 6, Level: models.LevelM1, TeacherID: 10},
		{ID: 4, Name: "Physics", ECTS: 4, Level: models.LevelB1, TeacherID: 0},
	}
}

func testTeacherLookups() (map[int]*models.Teacher, map[int]*models.User) {
	teachers := map[int]*models.Teacher{
		10: {ID: 10, UserID: 100},
		11: {ID: 11, UserID: 101},
	}
	users := map[int]*models.User{
		100: {ID: 100, FirstName: "Marie", LastName: "Curie"},
		101: {ID: 101, FirstName: "Alan", LastName: "Turing"},
	}
	return teachers, users
}

func TestPartitionCoursesCompleteness(t *testing.T) {
	courses := testCourses()
	subs := []*models.Subscription{
		{StudentID: 5, CourseID: 1, Score: 12},
		{StudentID: 5, CourseID: 3, Score: 8}, // wrong level, must not leak in
		{StudentID: 6, CourseID: 2, Score: 15},
	}
	teachers, users := testTeacherLookups()

	available, enrolled := PartitionCourses(courses, subs, models.LevelB1, 5, teachers, users)

	// Union must cover exactly the level-matching courses, disjointly.
	seen := map[int]int{}
	for _, c := range available {
		seen[c.ID]++
	}
	for _, c := range enrolled {
		seen[c.ID]++
	}
	if len(seen) != 3 {
		t.Errorf("partition covers %d courses, want 3 level-B1 courses", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("course %d appears %d times across the partition", id, n)
		}
	}

	if len(enrolled) != 1 || enrolled[0].ID != 1 {
		t.Fatalf("enrolled = %+v, want only course 1", enrolled)
	}
	if enrolled[0].Score != 12 {
		t.Errorf("enrolled score = %v, want 12", enrolled[0].Score)
	}
	if len(available) != 2 {
		t.Errorf("available = %+v, want courses 2 and 4", available)
	}
}

func TestPartitionCoursesSentinelStudent(t *testing.T) {
	courses := testCourses()
	subs := []*models.Subscription{
		{StudentID: 5, CourseID: 1, Score: 12},
		{StudentID: 6, CourseID: 2, Score: 15},
	}
	teachers, users := testTeacherLookups()

	available, enrolled := PartitionCourses(courses, subs, models.LevelB1, -1, teachers, users)

	if len(enrolled) != 0 {
		t.Errorf("sentinel student has %d enrolled courses, want 0", len(enrolled))
	}
	if len(available) != 3 {
		t.Errorf("sentinel student sees %d available courses, want all 3 level-B1 courses", len(available))
	}
}

func TestPartitionCoursesTeacherNames(t *testing.T) {
	courses := testCourses()
	teachers, users := testTeacherLookups()

	tests := []struct {
		name     string
		teachers map[int]*models.Teacher
		users    map[int]*models.User
		courseID int
		want     string
	}{
		{"resolved teacher", teachers, users, 1, "Marie Curie"},
		{"unassigned course", teachers, users, 4, UnknownTeacherName},
		{"missing teacher record", map[int]*models.Teacher{}, users, 1, UnknownTeacherName},
		{"missing user record", teachers, map[int]*models.User{}, 1, UnknownTeacherName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, _ := PartitionCourses(courses, nil, models.LevelB1, -1, tt.teachers, tt.users)

			var got string
			for _, c := range available {
				if c.ID == tt.courseID {
					got = c.TeacherName
				}
			}
			if got != tt.want {
				t.Errorf("teacher name for course %d = %q, want %q", tt.courseID, got, tt.want)
			}
		})
	}
}

func TestPartitionCoursesDeterministicOrder(t *testing.T) {
	courses := testCourses()
	teachers, users := testTeacherLookups()

	first, _ := PartitionCourses(courses, nil, models.LevelB1, -1, teachers, users)
	second, _ := PartitionCourses(courses, nil, models.LevelB1, -1, teachers, users)

	if len(first) != len(second) {
		t.Fatalf("lengths differ across calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order differs at index %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}
