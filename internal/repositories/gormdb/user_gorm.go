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

type userRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	bus          *events.Bus
}

func NewUserRepository(db *gorm.DB, cacheManager *cache.CacheManager, bus *events.Bus) repositories.UserRepository {
	return &userRepository{db: db, cacheManager: cacheManager, bus: bus}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}

	publish(r.bus, events.TopicUsers, events.ChangeEvent{Entity: "user", Op: events.OpCreate, ID: user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	err := r.cacheManager.User.CacheOrExecute(ctx, fmt.Sprintf("id:%d", id), &user, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var fetched models.User
		if err := db.WithContext(ctx).First(&fetched, id).Error; err != nil {
			return nil, err
		}
		return &fetched, nil
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get user by id")
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := r.getDB(tx)
	var user models.User

	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, handleDBError(err, "get user by username")
	}

	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var users []*models.User

	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, handleDBError(err, "get users by ids")
	}

	return users, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}

	cache.InvalidateUserCache(ctx, r.cacheManager, user.ID)
	publish(r.bus, events.TopicUsers, events.ChangeEvent{Entity: "user", Op: events.OpUpdate, ID: user.ID})
	return nil
}

func (r *userRepository) UpdatePhotoURL(ctx context.Context, tx *gorm.DB, id int, photoURL string) error {
	db := r.getDB(tx)
	result := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("photo_url", photoURL)
	if result.Error != nil {
		return handleDBError(result.Error, "update user photo")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidateUserCache(ctx, r.cacheManager, id)
	publish(r.bus, events.TopicUsers, events.ChangeEvent{Entity: "user", Op: events.OpUpdate, ID: id})
	return nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check username exists")
	}

	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := r.getDB(tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	query = applyPaginationAndSorting(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder, map[string]bool{
		"id": true, "username": true, "created_at": true,
	})

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "list users")
	}

	return users, total, nil
}

func (r *userRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
