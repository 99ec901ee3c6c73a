package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/models"
	"github.com/furkangunes-ai/video-editing-course-web/services"
	"github.com/furkangunes-ai/video-editing-course-web/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PaymentController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	validate *validator.Validate
}

func NewPaymentController(db *gorm.DB, cfg *config.Config) *PaymentController {
	return &PaymentController{DB: db, Cfg: cfg, validate: validator.New()}
}

func (pc *PaymentController) errorRedirect(c *fiber.Ctx, reason string) error {
	return c.Redirect(
		fmt.Sprintf("%s/odeme-hatasi?error=%s", pc.Cfg.FrontendURL, reason),
		fiber.StatusFound,
	)
}

func (pc *PaymentController) successRedirect(c *fiber.Ctx, orderCode string) error {
	return c.Redirect(
		fmt.Sprintf("%s/odeme-basarili?order=%s", pc.Cfg.FrontendURL, orderCode),
		fiber.StatusFound,
	)
}

func splitName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "Müşteri", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[len(parts)-1]
}

// shopierForm assembles the full form payload the frontend posts to
// the hosted checkout page. The signature covers the nonce, order
// code, two-decimal amount and currency code.
func (pc *PaymentController) shopierForm(product services.Product, order *models.Order, buyer *models.User) fiber.Map {
	signatureData := services.CheckoutSignatureData(
		order.RandomNr, order.OrderCode, order.Amount, order.Currency,
	)
	signature := services.GenerateSignature(signatureData, pc.Cfg.ShopierSecret)

	firstName, lastName := splitName(buyer.FullName)

	return fiber.Map{
		"API_key":           pc.Cfg.ShopierAPIKey,
		"website_index":     "1",
		"platform_order_id": order.OrderCode,
		"product_name":      product.Name,
		"product_type":      product.ProductType,
		"buyer_name":        firstName,
		"buyer_surname":     lastName,
		"buyer_email":       buyer.Email,
		"buyer_account_age": 0,
		"buyer_id_nr":       fmt.Sprintf("%d", buyer.ID),
		"buyer_phone":       "",
		"billing_address":   "Türkiye",
		"billing_city":      "İstanbul",
		"billing_country":   "TR",
		"billing_postcode":  "34000",
		"shipping_address":  "Dijital Ürün",
		"shipping_city":     "İstanbul",
		"shipping_country":  "TR",
		"shipping_postcode": "34000",
		"total_order_value": fmt.Sprintf("%.2f", order.Amount),
		"currency":          order.Currency,
		"platform":          0,
		"is_in_frame":       0,
		"current_language":  0,
		"modul_version":     "1.0.0",
		"random_nr":         order.RandomNr,
		"signature":         signature,
	}
}

func (pc *PaymentController) GetProducts(c *fiber.Ctx) error {
	result := make([]services.Product, 0, len(services.Products))
	for _, product := range services.Products {
		result = append(result, product)
	}
	return c.JSON(result)
}

func (pc *PaymentController) CreateOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&input); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.ProductID == "" {
		input.ProductID = "ustalik-sinifi"
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if user.HasAccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Zaten kursa erişiminiz var",
		})
	}

	product, ok := services.GetProduct(input.ProductID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ürün bulunamadı",
		})
	}

	order := models.Order{
		UserID:      user.ID,
		OrderCode:   utils.GenerateOrderCode(user.ID),
		ProductName: product.Name,
		Amount:      product.Price,
		Currency:    models.CurrencyTRY,
		Status:      models.OrderStatusPending,
		RandomNr:    utils.GenerateRandomNr(),
	}
	if err := pc.DB.Create(&order).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create order",
		})
	}

	return c.JSON(fiber.Map{
		"order_id":    order.ID,
		"order_code":  order.OrderCode,
		"payment_url": pc.Cfg.ShopierPaymentURL,
		"form_data":   pc.shopierForm(product, &order, &user),
	})
}

type guestOrderInput struct {
	Email        string `json:"email" validate:"required,email"`
	FullName     string `json:"full_name"`
	ProductID    string `json:"product_id" validate:"required"`
	DiscountCode string `json:"discount_code"`
	ReferralCode string `json:"referral_code"`
}

// CreateGuestOrder checks out a buyer who has no account yet. The
// user row, discount bookkeeping and the pending order are written in
// one transaction.
func (pc *PaymentController) CreateGuestOrder(c *fiber.Ctx) error {
	var input guestOrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := pc.validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Geçersiz istek", "details": err.Error(),
		})
	}

	product, ok := services.GetProduct(input.ProductID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ürün bulunamadı",
		})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	var order models.Order
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Just-in-time account with an unusable random credential.
			hashed, hashErr := bcrypt.GenerateFromPassword(
				[]byte(utils.GenerateRandomPassword()), bcrypt.DefaultCost,
			)
			if hashErr != nil {
				return hashErr
			}
			user = models.User{
				Email:        email,
				PasswordHash: string(hashed),
				FullName:     input.FullName,
				IsActive:     true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if user.HasAccess {
			return errAlreadyHasAccess
		}

		amount := product.Price

		if input.DiscountCode != "" {
			var discount models.DiscountCode
			err := tx.Where("code = ? AND is_active = ?",
				strings.ToUpper(input.DiscountCode), true).First(&discount).Error
			if err == nil {
				validation := services.ValidateDiscountCode(&discount, time.Now())
				if validation.Valid {
					amount = services.DiscountedPrice(amount, validation)
					discount.CurrentUses++
					if err := tx.Save(&discount).Error; err != nil {
						return err
					}
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if input.ReferralCode != "" {
			settings, err := services.GetOrCreateReferralSettings(tx)
			if err != nil {
				return err
			}
			var referrer models.User
			err = tx.Where("referral_code = ?", strings.ToUpper(input.ReferralCode)).
				First(&referrer).Error
			if err == nil && settings.IsActive && referrer.ID != user.ID {
				amount -= settings.ReferredDiscount
				if amount < 0 {
					amount = 0
				}

				var existing models.Referral
				err = tx.Where("referred_id = ?", user.ID).First(&existing).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					referral := models.Referral{
						ReferrerID:       referrer.ID,
						ReferredID:       user.ID,
						Status:           models.ReferralStatusPending,
						ReferrerReward:   settings.ReferrerReward,
						ReferredDiscount: settings.ReferredDiscount,
					}
					if err := tx.Create(&referral).Error; err != nil {
						return err
					}
				} else if err != nil {
					return err
				}
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		order = models.Order{
			UserID:      user.ID,
			OrderCode:   utils.GenerateOrderCode(user.ID),
			ProductName: product.Name,
			Amount:      amount,
			Currency:    models.CurrencyTRY,
			Status:      models.OrderStatusPending,
			RandomNr:    utils.GenerateRandomNr(),
		}
		return tx.Create(&order).Error
	})
	if errors.Is(err, errAlreadyHasAccess) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Zaten kursa erişiminiz var",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create order",
		})
	}

	return c.JSON(fiber.Map{
		"order_id":    order.ID,
		"order_code":  order.OrderCode,
		"payment_url": pc.Cfg.ShopierPaymentURL,
		"form_data":   pc.shopierForm(product, &order, &user),
	})
}

var errAlreadyHasAccess = errors.New("user already has access")

// Callback handles the gateway's settlement POST. It has no
// authenticated caller: failures are absorbed into redirects and the
// signature check is the only trust boundary.
func (pc *PaymentController) Callback(c *fiber.Ctx) error {
	platformOrderID := c.FormValue("platform_order_id")
	status := c.FormValue("status")
	paymentID := c.FormValue("payment_id")
	randomNr := c.FormValue("random_nr")
	receivedSignature := c.FormValue("signature")

	var order models.Order
	err := pc.DB.Where("order_code = ?", platformOrderID).First(&order).Error
	if err != nil {
		return pc.errorRedirect(c, "order_not_found")
	}

	// Double delivery of a settled order is not an error.
	if order.Status == models.OrderStatusSuccess {
		return pc.successRedirect(c, order.OrderCode)
	}
	if order.Status == models.OrderStatusFailed {
		return pc.errorRedirect(c, "order_failed")
	}

	expectedSignature := services.GenerateSignature(
		services.CallbackSignatureData(randomNr, platformOrderID),
		pc.Cfg.ShopierSecret,
	)
	if !services.VerifySignature(receivedSignature, expectedSignature) {
		order.Status = models.OrderStatusFailed
		pc.DB.Save(&order)
		return pc.errorRedirect(c, "invalid_signature")
	}

	if !strings.EqualFold(status, "success") {
		order.Status = models.OrderStatusFailed
		pc.DB.Save(&order)
		return pc.errorRedirect(c, "payment_failed")
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		order.Status = models.OrderStatusSuccess
		order.ShopierPaymentID = paymentID
		order.PaidAt = &now
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, order.UserID).Error; err != nil {
			return err
		}
		user.HasAccess = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		courseIDs := []uint{utils.LegacyCourseID}
		if product, ok := services.GetProductByName(order.ProductName); ok {
			courseIDs = product.CourseIDs
		}
		for _, courseID := range courseIDs {
			if err := services.GrantCourseAccess(tx, user.ID, courseID, "purchase"); err != nil {
				return err
			}
		}

		return services.SettleReferralForUser(tx, user.ID, order.ID)
	})
	if err != nil {
		return pc.errorRedirect(c, "processing_error")
	}

	return pc.successRedirect(c, order.OrderCode)
}

func (pc *PaymentController) GetOrder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	orderCode := c.Params("code")

	var order models.Order
	err := pc.DB.Where("order_code = ? AND user_id = ?", orderCode, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Sipariş bulunamadı",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"order_code":   order.OrderCode,
		"product_name": order.ProductName,
		"amount":       order.Amount,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
		"paid_at":      order.PaidAt,
	})
}

func (pc *PaymentController) GetMyOrders(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var orders []models.Order
	err := pc.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		result = append(result, fiber.Map{
			"order_code":   order.OrderCode,
			"product_name": order.ProductName,
			"amount":       order.Amount,
			"status":       order.Status,
			"created_at":   order.CreatedAt,
			"paid_at":      order.PaidAt,
		})
	}
	return c.JSON(result)
}
