package models

import "gorm.io/gorm"

// Passenger links a user to a ride they joined. The creator is never stored
// as a passenger; membership lists synthesize the creator as the owner entry.
type Passenger struct {
	gorm.Model
	UserID uint `json:"userId" gorm:"not null;uniqueIndex:idx_passenger_user_ride"`
	RideID uint `json:"rideId" gorm:"not null;uniqueIndex:idx_passenger_user_ride"`
	User   User `json:"user"`
	Ride   Ride `json:"-"`
}
