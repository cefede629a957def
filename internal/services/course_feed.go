package services

import (
	"context"
	"log/slog"

	"github.com/campus-scrud/enrollment-service/internal/events"
)

type courseFeedService struct {
	enrollment EnrollmentService
	bus        *events.Bus
	logger     *slog.Logger
}

func NewCourseFeedService(enrollment EnrollmentService, bus *events.Bus, logger *slog.Logger) CourseFeedService {
	return &courseFeedService{
		enrollment: enrollment,
		bus:        bus,
		logger:     logger,
	}
}

// Watch streams CourseViews snapshots for the user's student identity: one
// immediately, then one after every change to the course, subscription or
// student tables. Snapshots are recomputed from the store, so a burst of
// changes may collapse into fewer emissions. The channel closes when ctx is
// cancelled.
func (s *courseFeedService) Watch(ctx context.Context, userID int) (<-chan *CourseViews, error) {
	changes, err := s.bus.Subscribe(ctx, events.TopicCourses, events.TopicSubscriptions, events.TopicStudents)
	if err != nil {
		return nil, err
	}

	initial, err := s.enrollment.CourseViews(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(chan *CourseViews, 1)
	out <- initial

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case _, open := <-changes:
				if !open {
					return
				}

				views, err := s.enrollment.CourseViews(ctx, userID)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.Error("Failed to recompute course views", "error", err, "user_id", userID)
					continue
				}

				select {
				case out <- views:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
