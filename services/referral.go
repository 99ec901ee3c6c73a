package services

import (
	"errors"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateReferralSettings reads the singleton settings row,
// creating it with defaults on first access. The fixed primary key
// plus the do-nothing upsert keeps concurrent first reads from
// inserting duplicates.
func GetOrCreateReferralSettings(db *gorm.DB) (models.ReferralSettings, error) {
	defaults := models.ReferralSettings{
		ID:                models.ReferralSettingsID,
		ReferrerReward:    50,
		ReferredDiscount:  30,
		IsActive:          true,
		MinPurchaseAmount: 0,
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
	if err != nil {
		return models.ReferralSettings{}, err
	}

	var settings models.ReferralSettings
	err = db.First(&settings, models.ReferralSettingsID).Error
	return settings, err
}

// EnsureReferralCode lazily assigns a referral code to the user,
// retrying until the generated code is collision-free.
func EnsureReferralCode(db *gorm.DB, user *models.User) error {
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return nil
	}

	for {
		code := utils.GenerateReferralCode()
		var existing models.User
		err := db.Where("referral_code = ?", code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user.ReferralCode = &code
			return db.Model(user).Update("referral_code", code).Error
		}
		if err != nil {
			return err
		}
	}
}

// DiscountValidation is what code validation reports to the client.
// Unknown, expired or exhausted codes are ordinary outcomes, not
// errors.
type DiscountValidation struct {
	Valid           bool    `json:"valid"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountType    string  `json:"discount_type"`
	Message         string  `json:"message"`
}

// ValidateDiscountCode checks expiry and the usage cap of an active
// code. Expiry is reported before the cap.
func ValidateDiscountCode(discount *models.DiscountCode, now time.Time) DiscountValidation {
	if discount.ExpiresAt != nil && discount.ExpiresAt.Before(now) {
		return DiscountValidation{
			Valid:   false,
			Message: "Bu indirim kodunun süresi dolmuş",
		}
	}

	if discount.MaxUses != nil && discount.CurrentUses >= *discount.MaxUses {
		return DiscountValidation{
			Valid:   false,
			Message: "Bu indirim kodu kullanım limitine ulaşmış",
		}
	}

	return DiscountValidation{
		Valid:           true,
		DiscountAmount:  discount.DiscountAmount,
		DiscountPercent: discount.DiscountPercent,
		DiscountType:    discount.DiscountType,
		Message:         "İndirim kodu uygulandı!",
	}
}

// DiscountedPrice applies a discount to a price, clamped so the total
// never goes below zero.
func DiscountedPrice(price float64, discount DiscountValidation) float64 {
	if !discount.Valid {
		return price
	}

	total := price
	switch discount.DiscountType {
	case models.DiscountTypePercent:
		total = price - price*discount.DiscountPercent/100
	default:
		total = price - discount.DiscountAmount
	}

	if total < 0 {
		return 0
	}
	return total
}

// SettleReferralForUser activates the buyer's pending referral inside
// the caller's transaction: the referral becomes active, is linked to
// the order, and the referrer is credited.
func SettleReferralForUser(tx *gorm.DB, userID uint, orderID uint) error {
	var referral models.Referral
	err := tx.Where("referred_id = ? AND status = ?", userID, models.ReferralStatusPending).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now()
	referral.Status = models.ReferralStatusActive
	referral.OrderID = &orderID
	referral.ActivatedAt = &now
	if err := tx.Save(&referral).Error; err != nil {
		return err
	}

	var referrer models.User
	if err := tx.First(&referrer, referral.ReferrerID).Error; err != nil {
		return err
	}
	referrer.ReferralEarnings += referral.ReferrerReward
	referrer.ReferralBalance += referral.ReferrerReward
	return tx.Save(&referrer).Error
}
