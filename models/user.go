package models

import (
	"time"

	"gorm.io/gorm"
)

// User account model
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Fullname     string `json:"fullname" gorm:"size:100;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Gender       string `json:"gender" gorm:"size:20;not null"`
	MobileNumber string `json:"mobilenumber" gorm:"column:mobilenumber;uniqueIndex;size:15;not null"`
	Password     string `json:"-" gorm:"size:255;not null"`

	// Recovery slot: either empty (all three unset) or holding exactly one
	// pending credential, discriminated by RecoveryKind.
	RecoveryKind      string     `json:"-" gorm:"size:20;default:''"`
	RecoverySecret    *string    `json:"-" gorm:"size:512"`
	RecoveryExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}

// UserSummary the public view of a user returned by signin
type UserSummary struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
}

// Summary returns the public view of the user, never including the
// password hash or the recovery slot.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Fullname: u.Fullname,
		Email:    u.Email,
		Gender:   u.Gender,
	}
}
