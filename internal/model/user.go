package model

import (
	"time"
)

// Gender is stored as a string column, both for users and animals.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// IsValid reports whether g is a known gender value.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// User represents a registered account. The password is only ever stored as
// a bcrypt hash and is never serialized in responses.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(50);not null"`
	Surname      string    `json:"surname" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(20)"`
	Gender       Gender    `json:"gender" gorm:"type:varchar(6)"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	RegisterDate time.Time `json:"register_date" gorm:"autoCreateTime"`

	// Relations
	Seller    *Seller    `json:"seller,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite `json:"favorites,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
