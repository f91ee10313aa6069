package attendance

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// MaxOpenSession is the longest plausible shift. Anything open past this is
// an abandoned badge-in, not a worked span.
const MaxOpenSession = 18 * time.Hour

// ReapStale auto-closes sessions whose clock-in is older than MaxOpenSession
// hours. Credited hours are explicitly zeroed. restaurantID 0 scans every
// tenant (the periodic job); the read paths pass their own tenant. Each
// candidate is re-checked under the per-user lock so the reaper never races a
// live clock-out, and running it twice is a no-op.
func (s *Service) ReapStale(restaurantID uint) int {
	cutoff := s.Now().Add(-MaxOpenSession)

	q := s.db.Where("status = ? AND clock_in < ?", models.SessionActive, cutoff)
	if restaurantID != 0 {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	var stale []models.WorkSession
	if err := q.Find(&stale).Error; err != nil {
		log.Printf("reaper: scan failed: %v", err)
		return 0
	}

	closed := 0
	for i := range stale {
		candidate := stale[i]
		unlock := s.lockUser(candidate.RestaurantID, candidate.UserID)

		var cur models.WorkSession
		if err := s.db.First(&cur, candidate.ID).Error; err != nil || cur.Status != models.SessionActive {
			unlock()
			continue
		}

		now := s.Now()
		cur.ClockOut = &now
		cur.Status = models.SessionAutoClosed
		cur.HoursWorked = 0
		cur.Notes = appendNote(cur.Notes,
			fmt.Sprintf("auto-closed: open longer than %dh, clock-out never received", int(MaxOpenSession.Hours())))
		if err := s.db.Save(&cur).Error; err != nil {
			log.Printf("reaper: close session %d failed: %v", cur.ID, err)
		} else {
			closed++
		}
		unlock()
	}
	if closed > 0 {
		log.Printf("reaper: auto-closed %d stale session(s)", closed)
	}
	return closed
}

func appendNote(existing, note string) string {
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "; " + note
}
