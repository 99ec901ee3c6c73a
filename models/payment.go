package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending = "pending"
	OrderStatusSuccess = "success"
	OrderStatusFailed  = "failed"
)

// Shopier currency codes.
const (
	CurrencyTRY = 0
	CurrencyUSD = 1
	CurrencyEUR = 2
)

type Order struct {
	gorm.Model
	UserID           uint    `gorm:"not null;index"`
	OrderCode        string  `gorm:"uniqueIndex;not null"`
	ProductName      string  `gorm:"not null"`
	Amount           float64 `gorm:"not null"`
	Currency         int     `gorm:"default:0"`
	Status           string  `gorm:"size:20;default:pending"`
	ShopierPaymentID string
	RandomNr         string `gorm:"not null"` // anti-replay nonce echoed by the gateway
	PaidAt           *time.Time
}
