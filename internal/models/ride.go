package models

import (
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusOngoing   RideStatus = "ONGOING"
	RideStatusCompleted RideStatus = "COMPLETED"
)

const (
	GenderPrefAny    = "any"
	GenderPrefMale   = "male"
	GenderPrefFemale = "female"
)

type Ride struct {
	gorm.Model
	CreatorID       uint        `json:"creatorId" gorm:"not null;index"`
	Creator         User        `json:"creator"`
	Source          string      `json:"source" gorm:"not null"`
	Destination     string      `json:"destination" gorm:"not null"`
	Date            time.Time   `json:"date" gorm:"not null;index"`
	Time            string      `json:"time" gorm:"not null"` // wall-clock display string, e.g. "16:30"
	CarClass        string      `json:"carClass" gorm:"not null"`
	CarModel        string      `json:"carModel" gorm:"not null"`
	TotalSeats      int         `json:"totalSeats" gorm:"not null"`
	SeatsLeft       int         `json:"seatsLeft" gorm:"not null"`
	RideCost        int         `json:"rideCost" gorm:"not null"`
	GenderPref      string      `json:"genderPref" gorm:"not null;default:'any'"`
	AirConditioning bool        `json:"airConditioning" gorm:"not null;default:false"`
	DescText        string      `json:"descText" gorm:"not null"`
	Status          RideStatus  `json:"status" gorm:"not null;default:'ONGOING';index"`
	Passengers      []Passenger `json:"passengers,omitempty"`
	ChatRoom        *ChatRoom   `json:"chatRoom,omitempty"`
}
