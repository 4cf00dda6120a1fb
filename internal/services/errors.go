package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRideNotFound      = errors.New("ride not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrChatRoomNotFound  = errors.New("chat room not found")
	ErrRideFull          = errors.New("this ride is already full")
	ErrAlreadyJoined     = errors.New("you've already joined this ride")
	ErrNotRideOwner      = errors.New("only the ride owner can do this")
	ErrNotRideMember     = errors.New("you don't have access to this ride")
	ErrChatAccessDenied  = errors.New("you don't have access to this chat")
	ErrRideCompleted     = errors.New("cannot send messages to completed rides")

	// ErrCapacityExceeded guards the seat ledger against an unpaired release.
	// Reaching it means a release was not matched by a prior reservation.
	ErrCapacityExceeded = errors.New("seat count out of bounds")
)

// GenderPolicyError rejects a join that violates the ride's gender preference.
type GenderPolicyError struct {
	Pref string
}

func (e *GenderPolicyError) Error() string {
	return fmt.Sprintf("this ride is for %s only", e.Pref)
}

// ValidationError collects every failing field of a ride creation request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}
