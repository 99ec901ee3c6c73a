package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReferralsController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	validate *validator.Validate
}

func NewReferralsController(db *gorm.DB, cfg *config.Config) *ReferralsController {
	return &ReferralsController{DB: db, Cfg: cfg, validate: validator.New()}
}

func (rc *ReferralsController) GetMyCode(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := services.EnsureReferralCode(rc.DB, &user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate referral code",
		})
	}

	return c.JSON(fiber.Map{
		"referral_code": *user.ReferralCode,
		"referral_link": fmt.Sprintf("%s/kayit?ref=%s", rc.Cfg.FrontendURL, *user.ReferralCode),
	})
}

func (rc *ReferralsController) GetMyStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var referrals []models.Referral
	if err := rc.DB.Where("referrer_id = ?", userID).Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	active, pending := 0, 0
	for _, referral := range referrals {
		switch referral.Status {
		case models.ReferralStatusActive:
			active++
		case models.ReferralStatusPending:
			pending++
		}
	}

	return c.JSON(fiber.Map{
		"total_referrals":   len(referrals),
		"active_referrals":  active,
		"pending_referrals": pending,
		"total_earnings":    user.ReferralEarnings,
		"available_balance": user.ReferralBalance,
	})
}

func (rc *ReferralsController) GetMyReferrals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var referrals []models.Referral
	err := rc.DB.Where("referrer_id = ?", userID).Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(referrals))
	for _, referral := range referrals {
		referredEmail := "Bilinmiyor"
		var referred models.User
		if err := rc.DB.First(&referred, referral.ReferredID).Error; err == nil {
			referredEmail = referred.Email
		}
		result = append(result, fiber.Map{
			"id":              referral.ID,
			"referred_email":  referredEmail,
			"status":          referral.Status,
			"referrer_reward": referral.ReferrerReward,
			"created_at":      referral.CreatedAt,
			"activated_at":    referral.ActivatedAt,
		})
	}
	return c.JSON(result)
}

// ValidateReferralCode reports unknown codes as invalid, never as an
// HTTP error. The program toggle lives in the singleton settings row.
func (rc *ReferralsController) ValidateReferralCode(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))

	settings, err := services.GetOrCreateReferralSettings(rc.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if !settings.IsActive {
		return c.JSON(fiber.Map{
			"valid":           false,
			"discount_amount": 0,
			"message":         "Referans programı şu an aktif değil",
		})
	}

	var referrer models.User
	err = rc.DB.Where("referral_code = ?", code).First(&referrer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{
				"valid":           false,
				"discount_amount": 0,
				"message":         "Geçersiz referans kodu",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"valid":           true,
		"discount_amount": settings.ReferredDiscount,
		"message": fmt.Sprintf(
			"Referans kodu geçerli! %.0f TL indirim kazandınız.", settings.ReferredDiscount,
		),
	})
}

func (rc *ReferralsController) ValidateDiscountCode(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))

	var discount models.DiscountCode
	err := rc.DB.Where("code = ? AND is_active = ?", code, true).First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Geçersiz indirim kodu",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(services.ValidateDiscountCode(&discount, time.Now()))
}

func (rc *ReferralsController) GetSettings(c *fiber.Ctx) error {
	settings, err := services.GetOrCreateReferralSettings(rc.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"referrer_reward":     settings.ReferrerReward,
		"referred_discount":   settings.ReferredDiscount,
		"is_active":           settings.IsActive,
		"min_purchase_amount": settings.MinPurchaseAmount,
	})
}

func (rc *ReferralsController) UpdateSettings(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(uint)

	var input struct {
		ReferrerReward    float64 `json:"referrer_reward"`
		ReferredDiscount  float64 `json:"referred_discount"`
		IsActive          bool    `json:"is_active"`
		MinPurchaseAmount float64 `json:"min_purchase_amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	settings, err := services.GetOrCreateReferralSettings(rc.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	settings.ReferrerReward = input.ReferrerReward
	settings.ReferredDiscount = input.ReferredDiscount
	settings.IsActive = input.IsActive
	settings.MinPurchaseAmount = input.MinPurchaseAmount
	settings.UpdatedBy = &adminID

	if err := rc.DB.Save(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update settings",
		})
	}

	return c.JSON(fiber.Map{
		"referrer_reward":     settings.ReferrerReward,
		"referred_discount":   settings.ReferredDiscount,
		"is_active":           settings.IsActive,
		"min_purchase_amount": settings.MinPurchaseAmount,
	})
}

func (rc *ReferralsController) GetAllReferrals(c *fiber.Ctx) error {
	var referrals []models.Referral
	if err := rc.DB.Order("created_at DESC").Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(referrals))
	for _, referral := range referrals {
		referrerEmail, referredEmail := "Bilinmiyor", "Bilinmiyor"
		var referrer, referred models.User
		if err := rc.DB.First(&referrer, referral.ReferrerID).Error; err == nil {
			referrerEmail = referrer.Email
		}
		if err := rc.DB.First(&referred, referral.ReferredID).Error; err == nil {
			referredEmail = referred.Email
		}
		result = append(result, fiber.Map{
			"id":                referral.ID,
			"referrer_email":    referrerEmail,
			"referred_email":    referredEmail,
			"status":            referral.Status,
			"referrer_reward":   referral.ReferrerReward,
			"referred_discount": referral.ReferredDiscount,
			"created_at":        referral.CreatedAt,
			"activated_at":      referral.ActivatedAt,
		})
	}
	return c.JSON(result)
}

func (rc *ReferralsController) GetAdminStats(c *fiber.Ctx) error {
	var total, active, pending int64
	if err := rc.DB.Model(&models.Referral{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	rc.DB.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusActive).Count(&active)
	rc.DB.Model(&models.Referral{}).Where("status = ?", models.ReferralStatusPending).Count(&pending)

	var totalPaid float64
	rc.DB.Model(&models.Referral{}).
		Where("status = ?", models.ReferralStatusActive).
		Select("COALESCE(SUM(referrer_reward), 0)").Scan(&totalPaid)

	return c.JSON(fiber.Map{
		"total_referrals":    total,
		"active_referrals":   active,
		"pending_referrals":  pending,
		"total_rewards_paid": totalPaid,
	})
}

func discountCodeMap(discount models.DiscountCode) fiber.Map {
	return fiber.Map{
		"id":               discount.ID,
		"code":             discount.Code,
		"discount_type":    discount.DiscountType,
		"discount_amount":  discount.DiscountAmount,
		"discount_percent": discount.DiscountPercent,
		"max_uses":         discount.MaxUses,
		"current_uses":     discount.CurrentUses,
		"is_active":        discount.IsActive,
		"expires_at":       discount.ExpiresAt,
		"created_at":       discount.CreatedAt,
	}
}

func (rc *ReferralsController) GetDiscountCodes(c *fiber.Ctx) error {
	var codes []models.DiscountCode
	if err := rc.DB.Order("created_at DESC").Find(&codes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(codes))
	for _, code := range codes {
		result = append(result, discountCodeMap(code))
	}
	return c.JSON(result)
}

type discountCodeInput struct {
	Code            string     `json:"code" validate:"required,max=20"`
	DiscountType    string     `json:"discount_type" validate:"omitempty,oneof=fixed percent"`
	DiscountAmount  float64    `json:"discount_amount" validate:"gte=0"`
	DiscountPercent float64    `json:"discount_percent" validate:"gte=0,lte=100"`
	MaxUses         *int       `json:"max_uses"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

func (rc *ReferralsController) CreateDiscountCode(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(uint)

	var input discountCodeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := rc.validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Geçersiz istek", "details": err.Error(),
		})
	}
	if input.DiscountType == "" {
		input.DiscountType = models.DiscountTypeFixed
	}

	code := strings.ToUpper(input.Code)
	var existing models.DiscountCode
	if err := rc.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bu kod zaten mevcut",
		})
	}

	discount := models.DiscountCode{
		Code:            code,
		DiscountType:    input.DiscountType,
		DiscountAmount:  input.DiscountAmount,
		DiscountPercent: input.DiscountPercent,
		MaxUses:         input.MaxUses,
		ExpiresAt:       input.ExpiresAt,
		IsActive:        true,
		CreatedBy:       &adminID,
	}
	if err := rc.DB.Create(&discount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create discount code",
		})
	}

	return c.JSON(discountCodeMap(discount))
}

func (rc *ReferralsController) ToggleDiscountCode(c *fiber.Ctx) error {
	codeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discount code ID",
		})
	}

	var discount models.DiscountCode
	if err := rc.DB.First(&discount, codeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "İndirim kodu bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	discount.IsActive = !discount.IsActive
	if err := rc.DB.Save(&discount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update discount code",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Durum güncellendi",
		"is_active": discount.IsActive,
	})
}

func (rc *ReferralsController) DeleteDiscountCode(c *fiber.Ctx) error {
	codeID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discount code ID",
		})
	}

	var discount models.DiscountCode
	if err := rc.DB.First(&discount, codeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "İndirim kodu bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := rc.DB.Delete(&discount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete discount code",
		})
	}

	return c.JSON(fiber.Map{"message": "İndirim kodu silindi"})
}
