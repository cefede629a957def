package gormdb

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/cache"
	"github.com/campus-scrud/enrollment-service/internal/events"
	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type courseRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	bus          *events.Bus
}

func NewCourseRepository(db *gorm.DB, cacheManager *cache.CacheManager, bus *events.Bus) repositories.CourseRepository {
	return &courseRepository{db: db, cacheManager: cacheManager, bus: bus}
}

func (r *courseRepository) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}

	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID)
	publish(r.bus, events.TopicCourses, events.ChangeEvent{Entity: "course", Op: events.OpCreate, ID: course.ID})
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Course, error) {
	db := r.getDB(tx)
	var course models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, fmt.Sprintf("id:%d", id), &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var fetched models.Course
		if err := db.WithContext(ctx).First(&fetched, id).Error; err != nil {
			return nil, err
		}
		return &fetched, nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get course by id")
	}

	return &course, nil
}

func (r *courseRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var courses []*models.Course

	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "get courses by ids")
	}

	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}

	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID)
	publish(r.bus, events.TopicCourses, events.ChangeEvent{Entity: "course", Op: events.OpUpdate, ID: course.ID})
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete course")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateCourseCache(ctx, r.cacheManager, id)
	publish(r.bus, events.TopicCourses, events.ChangeEvent{Entity: "course", Op: events.OpDelete, ID: id})
	return nil
}

func (r *courseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := r.getDB(tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{})

	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]bool{
		"id": true, "name": true, "ects": true, "created_at": true,
	})

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *courseRepository) GetByLevel(ctx context.Context, tx *gorm.DB, level models.Level) ([]*models.Course, error) {
	db := r.getDB(tx)
	var courses []*models.Course

	if err := db.WithContext(ctx).Where("level = ?", level).Order("id asc").Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "get courses by level")
	}

	return courses, nil
}

func (r *courseRepository) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID int) ([]*models.Course, error) {
	db := r.getDB(tx)
	var courses []*models.Course

	if err := db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("id asc").Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "get courses by teacher")
	}

	return courses, nil
}

func (r *courseRepository) ExistsByID(ctx context.Context, tx *gorm.DB, id int) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check course exists")
	}

	return count > 0, nil
}

func (r *courseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
