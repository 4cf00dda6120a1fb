package services

import (
	"errors"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
	"gorm.io/gorm"
)

// RideSummary is the dashboard listing projection.
type RideSummary struct {
	ID              uint              `json:"id"`
	Fullname        string            `json:"fullname"`
	Email           string            `json:"email"`
	Source          string            `json:"source"`
	Destination     string            `json:"destination"`
	Date            time.Time         `json:"date"`
	Time            string            `json:"time"`
	CarClass        string            `json:"carClass"`
	CarModel        string            `json:"carModel"`
	SeatsLeft       int               `json:"seatsLeft"`
	RideCost        int               `json:"rideCost"`
	GenderPref      string            `json:"genderPref"`
	AirConditioning bool              `json:"airConditioning"`
	DescText        string            `json:"descText"`
	Status          models.RideStatus `json:"status"`
}

// RideMember is one entry of a ride's member list. The owner comes first and
// is never repeated in the passenger subset.
type RideMember struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	IsOwner  bool   `json:"isOwner"`
}

type UserRide struct {
	models.Ride
	IsOwner       bool `json:"isOwner"`
	IsParticipant bool `json:"isParticipant"`
}

type RideDetails struct {
	models.Ride
	Members []RideMember `json:"members"`
}

type RideHistoryEntry struct {
	ID             uint              `json:"id"`
	Source         string            `json:"source"`
	Destination    string            `json:"destination"`
	Date           time.Time         `json:"date"`
	Status         models.RideStatus `json:"status"`
	PassengerCount int               `json:"passengerCount"`
}

// AvailableRides lists every ride for the dashboard, newest first.
func (s *RideService) AvailableRides() ([]RideSummary, error) {
	var rides []models.Ride
	if err := s.db.Preload("Creator").
		Order("created_at DESC").
		Find(&rides).Error; err != nil {
		return nil, err
	}

	summaries := make([]RideSummary, 0, len(rides))
	for _, ride := range rides {
		summaries = append(summaries, RideSummary{
			ID:              ride.ID,
			Fullname:        ride.Creator.Fullname,
			Email:           ride.Creator.Email,
			Source:          ride.Source,
			Destination:     ride.Destination,
			Date:            ride.Date,
			Time:            ride.Time,
			CarClass:        ride.CarClass,
			CarModel:        ride.CarModel,
			SeatsLeft:       ride.SeatsLeft,
			RideCost:        ride.RideCost,
			GenderPref:      ride.GenderPref,
			AirConditioning: ride.AirConditioning,
			DescText:        ride.DescText,
			Status:          ride.Status,
		})
	}
	return summaries, nil
}

// UserRides lists the caller's ongoing rides, both created and joined,
// earliest first.
func (s *RideService) UserRides(userID uint) ([]UserRide, error) {
	var rides []models.Ride
	err := s.db.Preload("Creator").
		Preload("Passengers.User").
		Where("status = ?", models.RideStatusOngoing).
		Where("creator_id = ? OR id IN (?)", userID,
			s.db.Model(&models.Passenger{}).Select("ride_id").Where("user_id = ?", userID)).
		Order("date ASC").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}

	result := make([]UserRide, 0, len(rides))
	for _, ride := range rides {
		ride.Passengers = withoutCreator(ride.Passengers, ride.CreatorID)

		isParticipant := false
		for _, p := range ride.Passengers {
			if p.UserID == userID {
				isParticipant = true
				break
			}
		}

		result = append(result, UserRide{
			Ride:          ride,
			IsOwner:       ride.CreatorID == userID,
			IsParticipant: isParticipant,
		})
	}
	return result, nil
}

// RideDetails returns the full ride with its member list. Only members (the
// creator or a passenger) may see it.
func (s *RideService) RideDetails(userID, rideID uint) (*RideDetails, error) {
	var ride models.Ride
	err := s.db.Preload("Creator").
		Preload("Passengers.User").
		First(&ride, rideID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	isPassenger := false
	for _, p := range ride.Passengers {
		if p.UserID == userID {
			isPassenger = true
			break
		}
	}
	if ride.CreatorID != userID && !isPassenger {
		return nil, ErrNotRideMember
	}

	ride.Passengers = withoutCreator(ride.Passengers, ride.CreatorID)

	members := make([]RideMember, 0, len(ride.Passengers)+1)
	members = append(members, RideMember{
		ID:       ride.Creator.ID,
		Fullname: ride.Creator.Fullname,
		Email:    ride.Creator.Email,
		IsOwner:  true,
	})
	for _, p := range ride.Passengers {
		members = append(members, RideMember{
			ID:       p.User.ID,
			Fullname: p.User.Fullname,
			Email:    p.User.Email,
		})
	}

	return &RideDetails{Ride: ride, Members: members}, nil
}

// RideHistory lists every ride the user created or joined, newest first.
// The passenger count is derived from the seat ledger, which covers the
// creator's implicit seat.
func (s *RideService) RideHistory(userID uint) ([]RideHistoryEntry, error) {
	var rides []models.Ride
	err := s.db.
		Where("creator_id = ? OR id IN (?)", userID,
			s.db.Model(&models.Passenger{}).Select("ride_id").Where("user_id = ?", userID)).
		Order("date DESC").
		Find(&rides).Error
	if err != nil {
		return nil, err
	}

	entries := make([]RideHistoryEntry, 0, len(rides))
	for _, ride := range rides {
		entries = append(entries, RideHistoryEntry{
			ID:             ride.ID,
			Source:         ride.Source,
			Destination:    ride.Destination,
			Date:           ride.Date,
			Status:         ride.Status,
			PassengerCount: ride.TotalSeats - ride.SeatsLeft,
		})
	}
	return entries, nil
}

// CompletedRideCount counts distinct completed rides the user took part in.
func (s *RideService) CompletedRideCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Ride{}).
		Where("status = ?", models.RideStatusCompleted).
		Where("creator_id = ? OR id IN (?)", userID,
			s.db.Model(&models.Passenger{}).Select("ride_id").Where("user_id = ?", userID)).
		Count(&count).Error
	return count, err
}

// withoutCreator drops the creator from a passenger list. The creator is
// never inserted as a passenger, but anomalous rows must not render twice.
func withoutCreator(passengers []models.Passenger, creatorID uint) []models.Passenger {
	filtered := passengers[:0]
	for _, p := range passengers {
		if p.UserID != creatorID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
