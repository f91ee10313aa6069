package attendance

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Service owns the clock pipeline: device gate, normalization hand-off,
// policy, dedup, the work-session state machine, reaping and timesheets.
type Service struct {
	db *gorm.DB

	// Now is swappable in tests.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		Now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockUser serializes the read-decide-write session sequence for one
// (restaurant, user) pair. Webhook deliveries for different users proceed in
// parallel; concurrent deliveries for the same user queue here, which is what
// keeps the single-active-session invariant under at-least-once delivery.
func (s *Service) lockUser(restaurantID, userID uint) func() {
	key := fmt.Sprintf("%d/%d", restaurantID, userID)
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}
