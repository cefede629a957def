package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/events"
	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type studentUserRepository struct {
	db  *gorm.DB
	bus *events.Bus
}

func NewStudentUserRepository(db *gorm.DB, bus *events.Bus) repositories.StudentUserRepository {
	return &studentUserRepository{db: db, bus: bus}
}

func (r *studentUserRepository) Create(ctx context.Context, tx *gorm.DB, link *models.StudentUser) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		return handleDBError(err, "create student-user link")
	}
	return nil
}

func (r *studentUserRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID int) (*models.StudentUser, error) {
	db := r.getDB(tx)
	var link models.StudentUser

	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&link).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get student-user link by user id")
	}

	return &link, nil
}

func (r *studentUserRepository) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID int) (*models.StudentUser, error) {
	db := r.getDB(tx)
	var link models.StudentUser

	if err := db.WithContext(ctx).Where("student_id = ?", studentID).First(&link).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get student-user link by student id")
	}

	return &link, nil
}

func (r *studentUserRepository) GetByStudentIDs(ctx context.Context, tx *gorm.DB, studentIDs []int) ([]*models.StudentUser, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var links []*models.StudentUser

	if err := db.WithContext(ctx).Where("student_id IN ?", studentIDs).Find(&links).Error; err != nil {
		return nil, handleDBError(err, "get student-user links by student ids")
	}

	return links, nil
}

func (r *studentUserRepository) UpdateLevel(ctx context.Context, tx *gorm.DB, studentID int, level models.Level) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Model(&models.StudentUser{}).Where("student_id = ?", studentID).Update("level_of_study", level)
	if result.Error != nil {
		return handleDBError(result.Error, "update student level")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	publish(r.bus, events.TopicStudents, events.ChangeEvent{Entity: "student", Op: events.OpUpdate, ID: studentID})
	return nil
}

func (r *studentUserRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
