package handlers

import (
	"os"
	"time"

	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CompleteOverdueRides runs the ride lifecycle sweep. Invoked by an external
// cron service with the shared secret; safe to re-run at any interval.
func CompleteOverdueRides(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv("CRON_SECRET")
		if secret == "" || c.GetHeader("X-Cron-Secret") != secret {
			c.JSON(401, gin.H{"error": "Invalid cron secret"})
			return
		}

		completed, err := rides.CompleteOverdueRides(time.Now())
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete rides"})
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(200, gin.H{"success": true, "completed": completed})
	}
}
