package services

import (
	"github.com/campus-scrud/enrollment-service/internal/models"
)

// UnknownTeacherName is reported for courses whose teacher cannot be
// resolved, including unassigned courses (teacherID <= 0).
const UnknownTeacherName = "Unknown Teacher"

// PartitionCourses splits level-matching courses into those the student can
// still enroll in and those they are already enrolled in, each enriched with
// the resolved teacher display name. Enrolled courses carry the enrollment's
// score.
//
// A negative studentID means "unknown student": no course counts as enrolled
// and every level-matching course is available, regardless of the
// subscription snapshot. Output preserves the input order of courses.
func PartitionCourses(
	courses []*models.Course,
	subscriptions []*models.Subscription,
	level models.Level,
	studentID int,
	teachers map[int]*models.Teacher,
	users map[int]*models.User,
) (available []AvailableCourse, enrolled []EnrolledCourse) {
	available = []AvailableCourse{}
	enrolled = []EnrolledCourse{}

	scores := make(map[int]float64)
	if studentID >= 0 {
		for _, sub := range subscriptions {
			if sub.StudentID == studentID {
				scores[sub.CourseID] = sub.Score
			}
		}
	}

	for _, course := range courses {
		if course.Level != level {
			continue
		}

		teacherName := teacherDisplayName(course.TeacherID, teachers, users)

		if score, ok := scores[course.ID]; ok {
			enrolled = append(enrolled, EnrolledCourse{
				ID:          course.ID,
				Name:        course.Name,
				ECTS:        course.ECTS,
				Level:       course.Level,
				TeacherName: teacherName,
				Description: course.Description,
				Score:       score,
			})
		} else {
			available = append(available, AvailableCourse{
				ID:          course.ID,
				Name:        course.Name,
				ECTS:        course.ECTS,
				Level:       course.Level,
				TeacherName: teacherName,
				Description: course.Description,
			})
		}
	}

	return available, enrolled
}

// teacherDisplayName resolves a course's teacher to "first last", walking
// teacherID -> Teacher -> User. Any missing link yields the unknown-teacher
// placeholder.
func teacherDisplayName(teacherID int, teachers map[int]*models.Teacher, users map[int]*models.User) string {
	if teacherID <= 0 {
		return UnknownTeacherName
	}

	teacher, ok := teachers[teacherID]
	if !ok || teacher == nil {
		return UnknownTeacherName
	}

	user, ok := users[teacher.UserID]
	if !ok || user == nil {
		return UnknownTeacherName
	}

	return user.DisplayName()
}
