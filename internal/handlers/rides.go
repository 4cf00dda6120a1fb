package handlers

import (
	"strconv"
	"time"

	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type createRideInput struct {
	Source          string `json:"source" binding:"required"`
	Destination     string `json:"destination" binding:"required"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"`
	CarClass        string `json:"carClass" binding:"required"`
	CarModel        string `json:"carModel" binding:"required"`
	TotalSeats      int    `json:"totalSeats" binding:"required"`
	RideCost        int    `json:"rideCost" binding:"required"`
	GenderPref      string `json:"genderPref" binding:"required,oneof=any male female"`
	AirConditioning bool   `json:"airConditioning"`
	DescText        string `json:"descText" binding:"required"`
}

// CreateRide posts a new ride for the authenticated user
func CreateRide(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input createRideInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		ride, err := rides.CreateRide(userId, services.RideAttrs{
			Source:          input.Source,
			Destination:     input.Destination,
			Date:            date,
			Time:            input.Time,
			CarClass:        input.CarClass,
			CarModel:        input.CarModel,
			TotalSeats:      input.TotalSeats,
			RideCost:        input.RideCost,
			GenderPref:      input.GenderPref,
			AirConditioning: input.AirConditioning,
			DescText:        input.DescText,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(201, ride)
	}
}

// GetAvailableRides serves the dashboard listing, cached in Redis
func GetAvailableRides(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if cached, ok := services.GetCachedRideList(ctx); ok {
			c.JSON(200, cached)
			return
		}

		list, err := rides.AvailableRides()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rides"})
			return
		}

		services.SetCachedRideList(ctx, list)
		c.JSON(200, list)
	}
}

// GetMyRides lists the caller's ongoing rides, created and joined
func GetMyRides(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		list, err := rides.UserRides(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rides"})
			return
		}

		c.JSON(200, list)
	}
}

// GetRideDetails returns the ride with its synthesized member list
func GetRideDetails(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		details, err := rides.RideDetails(userId, rideID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, details)
	}
}

// JoinRide adds the caller as a passenger
func JoinRide(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := rides.JoinRide(userId, rideID); err != nil {
			respondServiceError(c, err)
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(200, gin.H{"message": "Joined ride successfully"})
	}
}

// LeaveRide removes the caller from a ride they joined
func LeaveRide(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := rides.LeaveRide(userId, rideID); err != nil {
			respondServiceError(c, err)
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(200, gin.H{"message": "Left ride successfully"})
	}
}

// RemovePassenger lets the ride owner kick a passenger
func RemovePassenger(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		passengerID, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := rides.RemovePassenger(userId, passengerID); err != nil {
			respondServiceError(c, err)
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(200, gin.H{"message": "Passenger removed"})
	}
}

// DeleteRide deletes a ride and its chat room; owner only
func DeleteRide(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		rideID, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := rides.DeleteRide(userId, rideID); err != nil {
			respondServiceError(c, err)
			return
		}

		services.InvalidateRideList(c.Request.Context())
		c.JSON(200, gin.H{"message": "Ride successfully deleted"})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}
