package handlers

import (
	"errors"
	"log"

	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service failures to HTTP responses. Business-rule
// rejections surface their message verbatim; anything unexpected is logged
// and collapsed to a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var genderErr *services.GenderPolicyError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(400, gin.H{"error": validationErr.Error(), "fields": validationErr.Fields})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(401, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRideNotFound),
		errors.Is(err, services.ErrPassengerNotFound),
		errors.Is(err, services.ErrChatRoomNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotRideOwner),
		errors.Is(err, services.ErrNotRideMember),
		errors.Is(err, services.ErrChatAccessDenied):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRideFull),
		errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrRideCompleted),
		errors.As(err, &genderErr):
		c.JSON(409, gin.H{"error": err.Error()})
	default:
		log.Printf("Unexpected service error: %v", err)
		c.JSON(500, gin.H{"error": "Something went wrong. Please try again."})
	}
}
