package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReferralStatusPending = "pending"
	ReferralStatusActive  = "active"
	ReferralStatusPaid    = "paid"
)

type Referral struct {
	gorm.Model
	ReferrerID       uint    `gorm:"not null;index"`
	ReferredID       uint    `gorm:"not null;index"`
	Status           string  `gorm:"size:20;default:pending"`
	ReferrerReward   float64 `gorm:"default:50"`
	ReferredDiscount float64 `gorm:"default:30"`
	OrderID          *uint
	ActivatedAt      *time.Time
}

// ReferralSettingsID pins the settings table to one logical row.
const ReferralSettingsID = 1

type ReferralSettings struct {
	ID                uint    `gorm:"primaryKey"`
	ReferrerReward    float64 `gorm:"default:50"`
	ReferredDiscount  float64 `gorm:"default:30"`
	IsActive          bool    `gorm:"default:true"`
	MinPurchaseAmount float64 `gorm:"default:0"`
	UpdatedAt         time.Time
	UpdatedBy         *uint
}

const (
	DiscountTypeFixed   = "fixed"
	DiscountTypePercent = "percent"
)

type DiscountCode struct {
	gorm.Model
	Code            string  `gorm:"size:20;uniqueIndex;not null"`
	DiscountType    string  `gorm:"size:10;default:fixed"`
	DiscountAmount  float64 `gorm:"default:0"`
	DiscountPercent float64 `gorm:"default:0"`
	MaxUses         *int    // nil = unlimited
	CurrentUses     int     `gorm:"default:0"`
	IsActive        bool    `gorm:"default:true"`
	ExpiresAt       *time.Time
	CreatedBy       *uint
}
