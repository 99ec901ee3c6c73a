package controllers_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyCodeAssignsLazily(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, token := createTestUser(t, db, cfg, "paylasan@example.com", false)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/my-code", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	code := body["referral_code"].(string)
	assert.Len(t, code, 8)
	assert.Contains(t, body["referral_link"], "/kayit?ref="+code)

	// A second read returns the same code.
	resp, err = app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/my-code", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, code, decodeMap(t, resp)["referral_code"])
}

func TestValidateReferralCodeUnknown(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/validate/YOKBOYLE", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Geçersiz referans kodu", body["message"])
}

func TestValidateReferralCodeKnown(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	referrer, _ := createTestUser(t, db, cfg, "sahip@example.com", false)
	require.NoError(t, services.EnsureReferralCode(db, &referrer))

	resp, err := app.Test(jsonRequest(fiber.MethodGet,
		"/api/referrals/validate/"+*referrer.ReferralCode, "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, float64(30), body["discount_amount"])
}

func TestValidateReferralCodeProgramInactive(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	referrer, _ := createTestUser(t, db, cfg, "sahip@example.com", false)
	require.NoError(t, services.EnsureReferralCode(db, &referrer))

	settings, err := services.GetOrCreateReferralSettings(db)
	require.NoError(t, err)
	settings.IsActive = false
	require.NoError(t, db.Save(&settings).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodGet,
		"/api/referrals/validate/"+*referrer.ReferralCode, "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Referans programı şu an aktif değil", body["message"])
}

func TestValidateDiscountCodeEndpoint(t *testing.T) {
	app, db, _ := setupTestApp(t)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.DiscountCode{
		Code: "ESKI", DiscountType: models.DiscountTypeFixed,
		DiscountAmount: 100, IsActive: true, ExpiresAt: &expired,
	}).Error)
	require.NoError(t, db.Create(&models.DiscountCode{
		Code: "TAZE", DiscountType: models.DiscountTypePercent,
		DiscountPercent: 10, IsActive: true,
	}).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/discounts/validate/BILINMEYEN", "", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/discounts/validate/eski", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, false, body["valid"])
	assert.Contains(t, body["message"], "süresi dolmuş")

	resp, err = app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/discounts/validate/TAZE", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeMap(t, resp)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, float64(10), body["discount_percent"])
}

func TestGetMyStats(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	referrer, token := createTestUser(t, db, cfg, "istatistik@example.com", false)
	other, _ := createTestUser(t, db, cfg, "diger@example.com", false)

	require.NoError(t, db.Create(&models.Referral{
		ReferrerID: referrer.ID, ReferredID: other.ID,
		Status: models.ReferralStatusPending, ReferrerReward: 50,
	}).Error)
	require.NoError(t, db.Model(&referrer).Updates(map[string]any{
		"referral_earnings": 150.0, "referral_balance": 100.0,
	}).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/my-stats", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, float64(1), body["total_referrals"])
	assert.Equal(t, float64(1), body["pending_referrals"])
	assert.Equal(t, float64(0), body["active_referrals"])
	assert.Equal(t, float64(150), body["total_earnings"])
	assert.Equal(t, float64(100), body["available_balance"])
}

func TestUpdateSettingsRequiresAdmin(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, userToken := createTestUser(t, db, cfg, "kullanici@example.com", false)
	_, adminToken := createTestUser(t, db, cfg, "yonetici@example.com", true)

	resp, err := app.Test(jsonRequest(fiber.MethodPut, "/api/referrals/admin/settings", userToken, fiber.Map{
		"referrer_reward": 75,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(fiber.MethodPut, "/api/referrals/admin/settings", adminToken, fiber.Map{
		"referrer_reward":   75,
		"referred_discount": 40,
		"is_active":         true,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, float64(75), body["referrer_reward"])
	assert.Equal(t, float64(40), body["referred_discount"])

	settings, err := services.GetOrCreateReferralSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 75.0, settings.ReferrerReward)
	require.NotNil(t, settings.UpdatedBy)
}

func TestCreateDiscountCodeUppercasesAndRejectsDuplicates(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, adminToken := createTestUser(t, db, cfg, "admin@example.com", true)

	resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/referrals/admin/discount-codes", adminToken, fiber.Map{
		"code":            "yaz2026",
		"discount_type":   models.DiscountTypeFixed,
		"discount_amount": 200,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "YAZ2026", decodeMap(t, resp)["code"])

	resp, err = app.Test(jsonRequest(fiber.MethodPost, "/api/referrals/admin/discount-codes", adminToken, fiber.Map{
		"code":            "YAZ2026",
		"discount_amount": 50,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Bu kod zaten mevcut", decodeMap(t, resp)["error"])

	var count int64
	db.Model(&models.DiscountCode{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestToggleDiscountCode(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, adminToken := createTestUser(t, db, cfg, "admin@example.com", true)

	discount := models.DiscountCode{Code: "KAPAT", DiscountType: models.DiscountTypeFixed, IsActive: true}
	require.NoError(t, db.Create(&discount).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodPut,
		fmt.Sprintf("/api/referrals/admin/discount-codes/%d/toggle", discount.ID), adminToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeMap(t, resp)["is_active"])

	var toggled models.DiscountCode
	require.NoError(t, db.First(&toggled, discount.ID).Error)
	assert.False(t, toggled.IsActive)
}

func TestAdminStats(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	_, adminToken := createTestUser(t, db, cfg, "admin@example.com", true)
	a, _ := createTestUser(t, db, cfg, "a@example.com", false)
	b, _ := createTestUser(t, db, cfg, "b@example.com", false)

	now := time.Now()
	require.NoError(t, db.Create(&models.Referral{
		ReferrerID: a.ID, ReferredID: b.ID,
		Status: models.ReferralStatusActive, ReferrerReward: 50, ActivatedAt: &now,
	}).Error)
	require.NoError(t, db.Create(&models.Referral{
		ReferrerID: b.ID, ReferredID: a.ID,
		Status: models.ReferralStatusPending, ReferrerReward: 50,
	}).Error)

	resp, err := app.Test(jsonRequest(fiber.MethodGet, "/api/referrals/admin/stats", adminToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeMap(t, resp)
	assert.Equal(t, float64(2), body["total_referrals"])
	assert.Equal(t, float64(1), body["active_referrals"])
	assert.Equal(t, float64(1), body["pending_referrals"])
	assert.Equal(t, float64(50), body["total_rewards_paid"])
}
