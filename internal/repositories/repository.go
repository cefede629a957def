package repositories

import "context"

// Repository bundles all entity repositories behind one interface so services
// depend on a single injection point.
type Repository interface {
	// Identity domain
	User() UserRepository

	// Student domain
	Student() StudentRepository
	StudentUser() StudentUserRepository

	// Teaching domain
	Teacher() TeacherRepository
	Course() CourseRepository

	// Enrollment domain
	Subscription() SubscriptionRepository

	// Service-assigned identifiers
	Sequence() SequenceRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
