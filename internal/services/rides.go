package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
	"gorm.io/gorm"
)

// RideService keeps seat counts, passenger rosters and chat membership
// mutually consistent. Every mutation runs inside a single transaction.
type RideService struct {
	db *gorm.DB
}

func NewRideService(db *gorm.DB) *RideService {
	return &RideService{db: db}
}

// RideAttrs is the validated attribute bundle for ride creation.
type RideAttrs struct {
	Source          string    `json:"source"`
	Destination     string    `json:"destination"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	CarClass        string    `json:"carClass"`
	CarModel        string    `json:"carModel"`
	TotalSeats      int       `json:"totalSeats"`
	RideCost        int       `json:"rideCost"`
	GenderPref      string    `json:"genderPref"`
	AirConditioning bool      `json:"airConditioning"`
	DescText        string    `json:"descText"`
}

var descForbidden = regexp.MustCompile(`[<>{}]`)

// ValidateRideAttrs re-checks every field bound by the HTTP layer so the
// transaction never starts on malformed input. All failing fields are
// reported at once.
func ValidateRideAttrs(attrs *RideAttrs) error {
	fields := make(map[string]string)

	attrs.Source = strings.TrimSpace(attrs.Source)
	attrs.Destination = strings.TrimSpace(attrs.Destination)
	attrs.CarClass = strings.TrimSpace(attrs.CarClass)
	attrs.CarModel = strings.TrimSpace(attrs.CarModel)
	attrs.DescText = strings.TrimSpace(attrs.DescText)

	if len(attrs.Source) < 2 {
		fields["source"] = "must be at least 2 characters"
	}
	if len(attrs.Destination) < 2 {
		fields["destination"] = "must be at least 2 characters"
	} else if attrs.Source != "" && strings.EqualFold(attrs.Source, attrs.Destination) {
		fields["destination"] = "pickup and destination must be different"
	}
	if attrs.Date.IsZero() {
		fields["date"] = "is required"
	}
	if strings.TrimSpace(attrs.Time) == "" {
		fields["time"] = "is required"
	}
	if attrs.CarClass == "" {
		fields["carClass"] = "is required"
	}
	if len(attrs.CarModel) < 2 {
		fields["carModel"] = "must be at least 2 characters"
	}
	if attrs.TotalSeats < 2 || attrs.TotalSeats > 20 {
		fields["totalSeats"] = "must be between 2 and 20"
	}
	if attrs.RideCost < 1 || attrs.RideCost > 4000 {
		fields["rideCost"] = "must be between 1 and 4000"
	}
	switch attrs.GenderPref {
	case models.GenderPrefAny, models.GenderPrefMale, models.GenderPrefFemale:
	default:
		fields["genderPref"] = "must be one of: any, male, female"
	}
	if n := len(attrs.DescText); n < 10 || n > 100 {
		fields["descText"] = "must be between 10 and 100 characters"
	} else if descForbidden.MatchString(attrs.DescText) {
		fields["descText"] = "must not contain < > { or }"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateRide inserts the ride, its chat room and the creator's chat
// membership in one transaction. The creator holds one seat implicitly and
// never gets a passenger row.
func (s *RideService) CreateRide(creatorID uint, attrs RideAttrs) (*models.Ride, error) {
	if err := ValidateRideAttrs(&attrs); err != nil {
		return nil, err
	}

	var creator models.User
	if err := s.db.First(&creator, creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ride := models.Ride{
		CreatorID:       creatorID,
		Source:          attrs.Source,
		Destination:     attrs.Destination,
		Date:            attrs.Date,
		Time:            attrs.Time,
		CarClass:        attrs.CarClass,
		CarModel:        attrs.CarModel,
		TotalSeats:      attrs.TotalSeats,
		SeatsLeft:       attrs.TotalSeats - 1, // creator occupies one seat
		RideCost:        attrs.RideCost,
		GenderPref:      attrs.GenderPref,
		AirConditioning: attrs.AirConditioning,
		DescText:        attrs.DescText,
		Status:          models.RideStatusOngoing,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ride).Error; err != nil {
			return err
		}

		chatRoom := models.ChatRoom{RideID: ride.ID}
		if err := tx.Create(&chatRoom).Error; err != nil {
			return err
		}

		return tx.Create(&models.ChatRoomUser{
			UserID:     creatorID,
			ChatRoomID: chatRoom.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &ride, nil
}

// JoinRide adds the user as a passenger, ensures chat membership and takes a
// seat, all-or-nothing. The seat decrement is conditional on seats_left > 0
// so concurrent joins can never drive the count negative.
func (s *RideService) JoinRide(userID, rideID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ride models.Ride
		if err := tx.First(&ride, rideID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRideNotFound
			}
			return err
		}

		if ride.SeatsLeft <= 0 {
			return ErrRideFull
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var joined int64
		if err := tx.Model(&models.Passenger{}).
			Where("user_id = ? AND ride_id = ?", userID, rideID).
			Count(&joined).Error; err != nil {
			return err
		}
		if joined > 0 {
			return ErrAlreadyJoined
		}

		// An "unknown" gender satisfies no restrictive preference.
		if ride.GenderPref != models.GenderPrefAny &&
			!strings.EqualFold(ride.GenderPref, user.Gender) {
			return &GenderPolicyError{Pref: ride.GenderPref}
		}

		if err := tx.Create(&models.Passenger{UserID: userID, RideID: rideID}).Error; err != nil {
			return err
		}

		var chatRoom models.ChatRoom
		if err := tx.Where("ride_id = ?", rideID).First(&chatRoom).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if err := ensureChatMember(tx, chatRoom.ID, userID); err != nil {
			return err
		}

		return reserveSeat(tx, rideID)
	})
}

// LeaveRide removes the caller's own passenger row and frees the seat. Chat
// membership is kept so former passengers retain chat history access.
func (s *RideService) LeaveRide(userID, rideID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var passenger models.Passenger
		if err := tx.Where("user_id = ? AND ride_id = ?", userID, rideID).
			First(&passenger).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPassengerNotFound
			}
			return err
		}

		if err := tx.Unscoped().Delete(&passenger).Error; err != nil {
			return err
		}

		return releaseSeat(tx, rideID)
	})
}

// RemovePassenger lets the ride creator force a passenger off the ride.
func (s *RideService) RemovePassenger(actingUserID, passengerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var passenger models.Passenger
		if err := tx.First(&passenger, passengerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPassengerNotFound
			}
			return err
		}

		var ride models.Ride
		if err := tx.First(&ride, passenger.RideID).Error; err != nil {
			return err
		}
		if ride.CreatorID != actingUserID {
			return ErrNotRideOwner
		}

		if err := tx.Unscoped().Delete(&passenger).Error; err != nil {
			return err
		}

		return releaseSeat(tx, passenger.RideID)
	})
}

// DeleteRide removes a ride and everything hanging off it: messages, chat
// memberships, the chat room and passenger rows.
func (s *RideService) DeleteRide(actingUserID, rideID uint) error {
	var ride models.Ride
	if err := s.db.First(&ride, rideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRideNotFound
		}
		return err
	}
	if ride.CreatorID != actingUserID {
		return ErrNotRideOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var chatRoom models.ChatRoom
		err := tx.Where("ride_id = ?", rideID).First(&chatRoom).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if err := tx.Unscoped().Where("chat_room_id = ?", chatRoom.ID).
				Delete(&models.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("chat_room_id = ?", chatRoom.ID).
				Delete(&models.ChatRoomUser{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&chatRoom).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("ride_id = ?", rideID).
			Delete(&models.Passenger{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&ride).Error
	})
}

// reserveSeat takes one seat if any is left. The guard and the decrement are
// a single UPDATE, so two concurrent joins on a one-seat ride cannot both win.
func reserveSeat(tx *gorm.DB, rideID uint) error {
	result := tx.Model(&models.Ride{}).
		Where("id = ? AND seats_left > 0", rideID).
		UpdateColumn("seats_left", gorm.Expr("seats_left - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRideFull
	}
	return nil
}

// releaseSeat frees one seat, clamped at total_seats. A release with no
// matching reservation fails loudly instead of overflowing the ledger.
func releaseSeat(tx *gorm.DB, rideID uint) error {
	result := tx.Model(&models.Ride{}).
		Where("id = ? AND seats_left < total_seats", rideID).
		UpdateColumn("seats_left", gorm.Expr("seats_left + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

func ensureChatMember(tx *gorm.DB, chatRoomID, userID uint) error {
	var member models.ChatRoomUser
	return tx.Where(models.ChatRoomUser{UserID: userID, ChatRoomID: chatRoomID}).
		FirstOrCreate(&member).Error
}
