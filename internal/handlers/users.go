package handlers

import (
	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProfile retrieves the user's profile with their completed ride count
func GetProfile(db *gorm.DB, rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		completed, err := rides.CompletedRideCount(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride stats"})
			return
		}

		c.JSON(200, gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"fullname":       user.Fullname,
			"regno":          user.Regno,
			"gender":         user.Gender,
			"avatarUrl":      user.AvatarURL,
			"completedRides": completed,
		})
	}
}

// UpdateProfile updates the user's display name
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Fullname *string `json:"fullname"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Fullname != nil {
			user.Fullname = *input.Fullname
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullname": user.Fullname,
			"regno":    user.Regno,
			"gender":   user.Gender,
		})
	}
}

// UploadAvatar stores a profile picture and saves its URL
func UploadAvatar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(400, gin.H{"error": "Avatar file is required"})
			return
		}

		url, err := services.UploadImage(file, "avatars")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload avatar"})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userId).
			Update("avatar_url", url).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save avatar"})
			return
		}

		c.JSON(200, gin.H{"avatarUrl": url})
	}
}

// GetRideHistory lists every ride the caller created or joined
func GetRideHistory(rides *services.RideService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		history, err := rides.RideHistory(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride history"})
			return
		}

		c.JSON(200, history)
	}
}
