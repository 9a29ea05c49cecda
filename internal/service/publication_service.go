package service

import (
	"context"
	"log"
	"time"

	"github.com/socialnet/internal/db"
	"gorm.io/gorm"
)

// PublicationService flips scheduled posts to published.
type PublicationService struct {
	db *gorm.DB
}

// NewPublicationService creates a PublicationService instance.
func NewPublicationService(gdb *gorm.DB) *PublicationService {
	return &PublicationService{db: gdb}
}

// PublishDuePosts publishes every unpublished post whose publish time is not
// after now and returns how many rows changed. Running it again only touches
// rows that are still unpublished.
func (s *PublicationService) PublishDuePosts(now time.Time) (int64, error) {
	result := s.db.Model(&db.Post{}).
		Where("published = ? AND publish_time IS NOT NULL AND publish_time <= ?", false, now.UTC()).
		Updates(map[string]interface{}{
			"published":  true,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountPosts returns the number of stored posts.
func (s *PublicationService) CountPosts() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Scheduler periodically runs PublishDuePosts.
type Scheduler struct {
	publications *PublicationService
	interval     time.Duration
	now          func() time.Time
}

// NewScheduler creates a Scheduler ticking every interval.
func NewScheduler(publications *PublicationService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{publications: publications, interval: interval, now: time.Now}
}

// Run publishes due posts once immediately and then on every tick until ctx
// is cancelled. Failures are logged and picked up again on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("[SCHEDULER] publishing due posts every %s", s.interval)
	s.RunOnce()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[SCHEDULER] stopped")
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs a single publication cycle and returns the number of
// posts published.
func (s *Scheduler) RunOnce() int64 {
	published, err := s.publications.PublishDuePosts(s.now())
	if err != nil {
		log.Printf("[SCHEDULER] publish due posts failed: %v", err)
		return 0
	}

	total, err := s.publications.CountPosts()
	if err != nil {
		log.Printf("[SCHEDULER] count posts failed: %v", err)
		return published
	}
	if published > 0 {
		log.Printf("[SCHEDULER] published %d post(s), %d total", published, total)
	}
	return published
}
