package gormdb

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

func newTestRepository(t *testing.T) repositories.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.StudentUser{},
		&models.Teacher{},
		&models.Course{},
		&models.Subscription{},
		&models.Sequence{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewGormRepository(RepositoryConfig{DB: db})
}

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := &models.User{
		ID:        1,
		Username:  "amartin",
		Role:      models.RoleStudent,
		FirstName: "Alice",
		LastName:  "Martin",
	}
	if err := repo.User().Create(ctx, nil, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.User().GetByUsername(ctx, nil, "amartin")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != 1 || got.FirstName != "Alice" {
		t.Errorf("got user %+v, want ID=1 FirstName=Alice", got)
	}

	exists, err := repo.User().ExistsByUsername(ctx, nil, "amartin")
	if err != nil {
		t.Fatalf("ExistsByUsername failed: %v", err)
	}
	if !exists {
		t.Error("expected username to exist")
	}

	_, err = repo.User().GetByUsername(ctx, nil, "nobody")
	if !repositories.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &models.User{ID: 1, Username: "dupe", Role: models.RoleStudent}
	if err := repo.User().Create(ctx, nil, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &models.User{ID: 2, Username: "dupe", Role: models.RoleTeacher}
	err := repo.User().Create(ctx, nil, second)
	if err == nil {
		t.Fatal("expected duplicate username error")
	}
	if !repositories.IsDuplicateError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
}

func TestCourseRepositoryListFilters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	courses := []*models.Course{
		{ID: 1, Name: "Algebra", ECTS: 6, Level: models.LevelB1, TeacherID: 10},
		{ID: 2, Name: "Analysis", ECTS: 9, Level: models.LevelB1, TeacherID: 11},
		{ID: 3, Name: "Databases", ECTS: 6, Level: models.LevelM1, TeacherID: 10},
	}
	for _, c := range courses {
		if err := repo.Course().Create(ctx, nil, c); err != nil {
			t.Fatalf("Create course %d failed: %v", c.ID, err)
		}
	}

	t.Run("by level", func(t *testing.T) {
		level := models.LevelB1
		got, total, err := repo.Course().List(ctx, nil, repositories.CourseFilters{Level: &level})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 2 || len(got) != 2 {
			t.Errorf("got %d courses (total %d), want 2", len(got), total)
		}
	})

	t.Run("by teacher", func(t *testing.T) {
		got, err := repo.Course().GetByTeacher(ctx, nil, 10)
		if err != nil {
			t.Fatalf("GetByTeacher failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d courses, want 2", len(got))
		}
	})

	t.Run("by name search", func(t *testing.T) {
		got, total, err := repo.Course().List(ctx, nil, repositories.CourseFilters{Search: "ana"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if total != 1 || got[0].Name != "Analysis" {
			t.Errorf("got %v (total %d), want single Analysis", got, total)
		}
	})
}

func TestSubscriptionRepositoryUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sub := &models.Subscription{StudentID: 5, CourseID: 7, Score: 0}
	if err := repo.Subscription().Upsert(ctx, nil, sub); err != nil {
		t.Fatalf("initial Upsert failed: %v", err)
	}

	// Second upsert on the same pair must update the score, not insert.
	graded := &models.Subscription{StudentID: 5, CourseID: 7, Score: 14.5}
	if err := repo.Subscription().Upsert(ctx, nil, graded); err != nil {
		t.Fatalf("upsert with score failed: %v", err)
	}

	got, err := repo.Subscription().Get(ctx, nil, 5, 7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Score != 14.5 {
		t.Errorf("got score %v, want 14.5", got.Score)
	}

	count, err := repo.Subscription().CountByCourse(ctx, nil, 7)
	if err != nil {
		t.Fatalf("CountByCourse failed: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d subscriptions, want 1", count)
	}
}

func TestSubscriptionRepositoryCascades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	pairs := []models.Subscription{
		{StudentID: 1, CourseID: 100},
		{StudentID: 2, CourseID: 100},
		{StudentID: 1, CourseID: 200},
	}
	for i := range pairs {
		if err := repo.Subscription().Upsert(ctx, nil, &pairs[i]); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	if err := repo.Subscription().DeleteByCourse(ctx, nil, 100); err != nil {
		t.Fatalf("DeleteByCourse failed: %v", err)
	}

	remaining, err := repo.Subscription().GetByStudent(ctx, nil, 1)
	if err != nil {
		t.Fatalf("GetByStudent failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].CourseID != 200 {
		t.Errorf("got %v, want single subscription to course 200", remaining)
	}
}

func TestSequenceRepositoryAllocation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Sequence().Next(ctx, nil, models.SequenceCourses, 1)
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if first != 1 {
		t.Errorf("got first id %d, want 1", first)
	}

	second, err := repo.Sequence().Next(ctx, nil, models.SequenceCourses, 1)
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if second != 2 {
		t.Errorf("got second id %d, want 2", second)
	}

	// Seeding with explicit ids raises the floor.
	if err := repo.Sequence().EnsureAtLeast(ctx, nil, models.SequenceCourses, 50); err != nil {
		t.Fatalf("EnsureAtLeast failed: %v", err)
	}
	third, err := repo.Sequence().Next(ctx, nil, models.SequenceCourses, 1)
	if err != nil {
		t.Fatalf("third Next failed: %v", err)
	}
	if third != 50 {
		t.Errorf("got id %d after raise, want 50", third)
	}
}

func TestWithTransactionRollback(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user := &models.User{ID: 9, Username: "rollback", Role: models.RoleStudent}
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	_, err = repo.User().GetByUsername(ctx, nil, "rollback")
	if !repositories.IsNotFoundError(err) {
		t.Errorf("expected rolled-back user to be absent, got %v", err)
	}
}
