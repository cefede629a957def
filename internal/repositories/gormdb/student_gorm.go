package gormdb

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/cache"
	"github.com/campus-scrud/enrollment-service/internal/events"
	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type studentRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	bus          *events.Bus
}

func NewStudentRepository(db *gorm.DB, cacheManager *cache.CacheManager, bus *events.Bus) repositories.StudentRepository {
	return &studentRepository{db: db, cacheManager: cacheManager, bus: bus}
}

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}

	publish(r.bus, events.TopicStudents, events.ChangeEvent{Entity: "student", Op: events.OpCreate, ID: student.ID})
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Student, error) {
	db := r.getDB(tx)
	var student models.Student

	if err := db.WithContext(ctx).First(&student, id).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get student by id")
	}

	return &student, nil
}

func (r *studentRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var students []*models.Student

	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, handleDBError(err, "get students by ids")
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return handleDBError(err, "update student")
	}

	cache.InvalidateStudentCache(ctx, r.cacheManager, student.ID)
	publish(r.bus, events.TopicStudents, events.ChangeEvent{Entity: "student", Op: events.OpUpdate, ID: student.ID})
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete student")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateStudentCache(ctx, r.cacheManager, id)
	publish(r.bus, events.TopicStudents, events.ChangeEvent{Entity: "student", Op: events.OpDelete, ID: id})
	return nil
}

func (r *studentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := r.getDB(tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count students")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]bool{
		"id": true, "last_name": true, "first_name": true,
	})

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, handleDBError(err, "list students")
	}

	return students, total, nil
}

func (r *studentRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
