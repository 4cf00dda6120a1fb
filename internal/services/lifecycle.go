package services

import (
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
)

// CompleteOverdueRides transitions every ongoing ride whose scheduled date
// has passed to COMPLETED and returns how many changed. The whole sweep is
// one conditional UPDATE: re-running it on the same window is a no-op, and
// it is safe alongside concurrent joins.
func (s *RideService) CompleteOverdueRides(now time.Time) (int64, error) {
	result := s.db.Model(&models.Ride{}).
		Where("status = ? AND date <= ?", models.RideStatusOngoing, now).
		Update("status", models.RideStatusCompleted)
	return result.RowsAffected, result.Error
}
