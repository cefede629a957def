package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type teacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) repositories.TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(teacher).Error; err != nil {
		return handleDBError(err, "create teacher")
	}
	return nil
}

func (r *teacherRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.Teacher, error) {
	db := r.getDB(tx)
	var teacher models.Teacher

	if err := db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get teacher by id")
	}

	return &teacher, nil
}

func (r *teacherRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID int) (*models.Teacher, error) {
	db := r.getDB(tx)
	var teacher models.Teacher

	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get teacher by user id")
	}

	return &teacher, nil
}

func (r *teacherRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.Teacher, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var teachers []*models.Teacher

	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&teachers).Error; err != nil {
		return nil, handleDBError(err, "get teachers by ids")
	}

	return teachers, nil
}

func (r *teacherRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Teacher, error) {
	db := r.getDB(tx)
	var teachers []*models.Teacher

	if err := db.WithContext(ctx).Order("id asc").Find(&teachers).Error; err != nil {
		return nil, handleDBError(err, "list teachers")
	}

	return teachers, nil
}

func (r *teacherRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
