package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campus-scrud/enrollment-service/internal/cache"
	"github.com/campus-scrud/enrollment-service/internal/events"
	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

// GormRepository implements the main Repository interface over any GORM
// dialector (embedded sqlite by default, postgres for shared deployments).
type GormRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager
	bus          *events.Bus

	user         repositories.UserRepository
	student      repositories.StudentRepository
	studentUser  repositories.StudentUserRepository
	teacher      repositories.TeacherRepository
	course       repositories.CourseRepository
	subscription repositories.SubscriptionRepository
	sequence     repositories.SequenceRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client // optional; nil disables caching
	Bus         *events.Bus   // optional; nil disables change notifications
}

// NewGormRepository creates a new repository manager with all sub-repositories
func NewGormRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &GormRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
		bus:          config.Bus,
	}

	repo.user = NewUserRepository(config.DB, cacheManager, config.Bus)
	repo.student = NewStudentRepository(config.DB, cacheManager, config.Bus)
	repo.studentUser = NewStudentUserRepository(config.DB, config.Bus)
	repo.teacher = NewTeacherRepository(config.DB)
	repo.course = NewCourseRepository(config.DB, cacheManager, config.Bus)
	repo.subscription = NewSubscriptionRepository(config.DB, cacheManager, config.Bus)
	repo.sequence = NewSequenceRepository(config.DB)

	return repo
}

func (r *GormRepository) User() repositories.UserRepository                 { return r.user }
func (r *GormRepository) Student() repositories.StudentRepository           { return r.student }
func (r *GormRepository) StudentUser() repositories.StudentUserRepository   { return r.studentUser }
func (r *GormRepository) Teacher() repositories.TeacherRepository           { return r.teacher }
func (r *GormRepository) Course() repositories.CourseRepository             { return r.course }
func (r *GormRepository) Subscription() repositories.SubscriptionRepository { return r.subscription }
func (r *GormRepository) Sequence() repositories.SequenceRepository         { return r.sequence }

// WithTransaction executes a function within a database transaction
func (r *GormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &GormRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
			bus:          r.bus,
		}

		txRepo.user = NewUserRepository(tx, r.cacheManager, r.bus)
		txRepo.student = NewStudentRepository(tx, r.cacheManager, r.bus)
		txRepo.studentUser = NewStudentUserRepository(tx, r.bus)
		txRepo.teacher = NewTeacherRepository(tx)
		txRepo.course = NewCourseRepository(tx, r.cacheManager, r.bus)
		txRepo.subscription = NewSubscriptionRepository(tx, r.cacheManager, r.bus)
		txRepo.sequence = NewSequenceRepository(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize validates connections and builds the repository
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewGormRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}

// handleDBError is a package-level helper for wrapping database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// publish sends a change event when a bus is configured
func publish(bus *events.Bus, topic string, event events.ChangeEvent) {
	if bus == nil {
		return
	}
	bus.Publish(topic, event)
}
