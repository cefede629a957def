package gormdb

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-scrud/enrollment-service/internal/cache"
	"github.com/campus-scrud/enrollment-service/internal/events"
	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type subscriptionRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	bus          *events.Bus
}

func NewSubscriptionRepository(db *gorm.DB, cacheManager *cache.CacheManager, bus *events.Bus) repositories.SubscriptionRepository {
	return &subscriptionRepository{db: db, cacheManager: cacheManager, bus: bus}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, tx *gorm.DB, sub *models.Subscription) error {
	db := r.getDB(tx)

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return handleDBError(err, "upsert subscription")
	}

	cache.InvalidateEnrollmentCache(ctx, r.cacheManager, sub.StudentID, sub.CourseID)
	publish(r.bus, events.TopicSubscriptions, events.ChangeEvent{
		Entity:      "subscription",
		Op:          events.OpUpdate,
		ID:          sub.StudentID,
		SecondaryID: sub.CourseID,
	})
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, tx *gorm.DB, studentID, courseID int) (*models.Subscription, error) {
	db := r.getDB(tx)
	var sub models.Subscription

	if err := db.WithContext(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID).First(&sub).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get subscription")
	}

	return &sub, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, tx *gorm.DB, studentID, courseID int) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID).Delete(&models.Subscription{})
	if result.Error != nil {
		return handleDBError(result.Error, "delete subscription")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateEnrollmentCache(ctx, r.cacheManager, studentID, courseID)
	publish(r.bus, events.TopicSubscriptions, events.ChangeEvent{
		Entity:      "subscription",
		Op:          events.OpDelete,
		ID:          studentID,
		SecondaryID: courseID,
	})
	return nil
}

func (r *subscriptionRepository) GetByStudent(ctx context.Context, tx *gorm.DB, studentID int) ([]*models.Subscription, error) {
	db := r.getDB(tx)
	var subs []*models.Subscription

	if err := db.WithContext(ctx).Where("student_id = ?", studentID).Order("course_id asc").Find(&subs).Error; err != nil {
		return nil, handleDBError(err, "get subscriptions by student")
	}

	return subs, nil
}

func (r *subscriptionRepository) GetByCourse(ctx context.Context, tx *gorm.DB, courseID int) ([]*models.Subscription, error) {
	db := r.getDB(tx)
	var subs []*models.Subscription

	if err := db.WithContext(ctx).Where("course_id = ?", courseID).Order("student_id asc").Find(&subs).Error; err != nil {
		return nil, handleDBError(err, "get subscriptions by course")
	}

	return subs, nil
}

func (r *subscriptionRepository) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID int) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&models.Subscription{}).Error; err != nil {
		return handleDBError(err, "delete subscriptions by course")
	}

	cache.SafeInvalidatePattern(ctx, r.cacheManager.Student, "grades:*")
	cache.SafeDelete(ctx, r.cacheManager.Roster, "course:"+strconv.Itoa(courseID))
	publish(r.bus, events.TopicSubscriptions, events.ChangeEvent{
		Entity:      "subscription",
		Op:          events.OpDelete,
		SecondaryID: courseID,
	})
	return nil
}

func (r *subscriptionRepository) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID int) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Subscription{}).Error; err != nil {
		return handleDBError(err, "delete subscriptions by student")
	}

	cache.InvalidateStudentCache(ctx, r.cacheManager, studentID)
	publish(r.bus, events.TopicSubscriptions, events.ChangeEvent{
		Entity: "subscription",
		Op:     events.OpDelete,
		ID:     studentID,
	})
	return nil
}

func (r *subscriptionRepository) CountByCourse(ctx context.Context, tx *gorm.DB, courseID int) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).Model(&models.Subscription{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count subscriptions by course")
	}

	return count, nil
}

func (r *subscriptionRepository) CountByCourses(ctx context.Context, tx *gorm.DB, courseIDs []int) (map[int]int64, error) {
	counts := make(map[int]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	db := r.getDB(tx)

	type row struct {
		CourseID int
		Total    int64
	}
	var rows []row

	err := db.WithContext(ctx).
		Model(&models.Subscription{}).
		Select("course_id, COUNT(*) as total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, handleDBError(err, "count subscriptions by courses")
	}

	for _, r := range rows {
		counts[r.CourseID] = r.Total
	}

	return counts, nil
}

func (r *subscriptionRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
