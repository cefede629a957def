package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-scrud/enrollment-service/internal/models"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) repositories.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next allocates an identifier by atomically bumping the sequence row inside
// a transaction. The UPDATE takes a row lock on postgres; sqlite serializes
// writers, so both backends hand out each identifier exactly once.
func (r *sequenceRepository) Next(ctx context.Context, tx *gorm.DB, name string, start int) (int, error) {
	db := r.getDB(tx)

	var id int
	err := db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		for {
			result := txn.Model(&models.Sequence{}).
				Where("name = ?", name).
				UpdateColumn("next", gorm.Expr("next + 1"))
			if result.Error != nil {
				return handleDBError(result.Error, "bump sequence")
			}
			if result.RowsAffected > 0 {
				var seq models.Sequence
				if err := txn.Where("name = ?", name).First(&seq).Error; err != nil {
					return handleDBError(err, "read sequence")
				}
				id = seq.Next - 1
				return nil
			}

			// First allocation for this sequence. A concurrent writer may
			// win the insert; loop back to the update if so.
			seq := models.Sequence{Name: name, Next: start + 1}
			create := txn.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq)
			if create.Error != nil {
				return handleDBError(create.Error, "create sequence")
			}
			if create.RowsAffected > 0 {
				id = start
				return nil
			}
		}
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// EnsureAtLeast raises the sequence floor, creating the row when missing.
func (r *sequenceRepository) EnsureAtLeast(ctx context.Context, tx *gorm.DB, name string, next int) error {
	db := r.getDB(tx)

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		seq := models.Sequence{Name: name, Next: next}
		if err := txn.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
			return handleDBError(err, "create sequence")
		}

		result := txn.Model(&models.Sequence{}).
			Where("name = ? AND next < ?", name, next).
			UpdateColumn("next", next)
		if result.Error != nil {
			return handleDBError(result.Error, "raise sequence")
		}
		return nil
	})
}

func (r *sequenceRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
