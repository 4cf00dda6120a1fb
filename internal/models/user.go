package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Fullname     string `json:"fullname" gorm:"column:fullname;not null"`
	Regno        string `json:"regno" gorm:"column:regno;not null"`
	Gender       string `json:"gender" gorm:"column:gender;not null;default:'unknown'"`
	Password     string `json:"-" gorm:"-"` // Temporary field for password handling
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	AvatarURL    string `json:"avatarUrl" gorm:"column:avatar_url"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
