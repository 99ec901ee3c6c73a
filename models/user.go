package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string
	IsActive     bool `gorm:"default:true"`
	IsAdmin      bool `gorm:"default:false"`
	// Legacy single-course purchase flag. Access checks go through
	// CourseAccess; the flag is still written on payment success for
	// old clients.
	HasAccess bool `gorm:"default:false"`

	ReferralCode     *string `gorm:"size:10;uniqueIndex"`
	ReferredByUserID *uint
	ReferralEarnings float64 `gorm:"default:0"`
	ReferralBalance  float64 `gorm:"default:0"`
}
