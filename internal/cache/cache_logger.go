package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache invalidates all caches derived from a course
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID int) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Course, "level:*")
	SafeDelete(ctx, cm.Roster, fmt.Sprintf("course:%d", courseID))
}

// InvalidateStudentCache invalidates all caches derived from a student
func InvalidateStudentCache(ctx context.Context, cm *CacheManager, studentID int) {
	SafeDelete(ctx, cm.Student, fmt.Sprintf("id:%d", studentID))
	SafeInvalidatePattern(ctx, cm.Student, fmt.Sprintf("grades:%d:*", studentID))
}

// InvalidateEnrollmentCache invalidates caches affected by a subscription change
func InvalidateEnrollmentCache(ctx context.Context, cm *CacheManager, studentID, courseID int) {
	SafeDelete(ctx, cm.Roster, fmt.Sprintf("course:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Student, fmt.Sprintf("grades:%d:*", studentID))
	SafeInvalidatePattern(ctx, cm.Fast, fmt.Sprintf("dashboard:%d*", studentID))
}

// InvalidateUserCache invalidates user profile caches
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID int) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
}
