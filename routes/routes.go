package routes

import (
	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/controllers"
	"github.com/furkangunes-ai/video-editing-course-web/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// Course routes. Static segments are registered before the :id
	// routes so Fiber does not swallow them.
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.GetCourses)
	courses.Post("/progress", authMiddleware, coursesController.UpdateProgress)
	courses.Get("/progress/me", authMiddleware, coursesController.GetMyProgress)
	courses.Get("/my-courses", authMiddleware, coursesController.GetMyCourses)
	courses.Post("/admin/course", authMiddleware, adminMiddleware, coursesController.CreateCourse)
	courses.Post("/admin/lesson", authMiddleware, adminMiddleware, coursesController.CreateLesson)
	courses.Post("/admin/thumbnail", authMiddleware, adminMiddleware, coursesController.UploadThumbnail)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Get("/:id/lessons/:lessonId", authMiddleware, coursesController.GetLesson)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(db, cfg)
	quizzes := app.Group("/api/quizzes")
	quizzes.Get("/course/:courseId", authMiddleware, quizzesController.GetCourseQuizzes)
	quizzes.Get("/course/:courseId/contents", authMiddleware, quizzesController.GetCourseContents)
	quizzes.Get("/my-attempts", authMiddleware, quizzesController.GetMyAttempts)
	quizzes.Get("/admin/list", authMiddleware, adminMiddleware, quizzesController.AdminListQuizzes)
	quizzes.Get("/admin/contents/:courseId", authMiddleware, adminMiddleware, quizzesController.AdminGetCourseContents)
	quizzes.Post("/admin/contents/reorder", authMiddleware, adminMiddleware, quizzesController.ReorderContents)
	quizzes.Post("/admin", authMiddleware, adminMiddleware, quizzesController.CreateQuiz)
	quizzes.Get("/admin/:id", authMiddleware, adminMiddleware, quizzesController.AdminGetQuiz)
	quizzes.Put("/admin/:id", authMiddleware, adminMiddleware, quizzesController.UpdateQuiz)
	quizzes.Delete("/admin/:id", authMiddleware, adminMiddleware, quizzesController.DeleteQuiz)
	quizzes.Post("/admin/:id/questions", authMiddleware, adminMiddleware, quizzesController.AddQuestion)
	quizzes.Put("/admin/questions/:questionId", authMiddleware, adminMiddleware, quizzesController.UpdateQuestion)
	quizzes.Delete("/admin/questions/:questionId", authMiddleware, adminMiddleware, quizzesController.DeleteQuestion)
	quizzes.Get("/:id", authMiddleware, quizzesController.GetQuiz)
	quizzes.Post("/:id/submit", authMiddleware, quizzesController.SubmitQuiz)

	// Payment routes. The callback is unauthenticated: the gateway is
	// the caller and the signature check is the trust boundary.
	paymentController := controllers.NewPaymentController(db, cfg)
	payment := app.Group("/api/payment")
	payment.Get("/products", paymentController.GetProducts)
	payment.Post("/create-order", authMiddleware, paymentController.CreateOrder)
	payment.Post("/create-guest-order", paymentController.CreateGuestOrder)
	payment.Post("/callback", paymentController.Callback)
	payment.Get("/my-orders", authMiddleware, paymentController.GetMyOrders)
	payment.Get("/order/:code", authMiddleware, paymentController.GetOrder)

	// Referral routes
	referralsController := controllers.NewReferralsController(db, cfg)
	referrals := app.Group("/api/referrals")
	referrals.Get("/my-code", authMiddleware, referralsController.GetMyCode)
	referrals.Get("/my-stats", authMiddleware, referralsController.GetMyStats)
	referrals.Get("/my-referrals", authMiddleware, referralsController.GetMyReferrals)
	referrals.Get("/validate/:code", referralsController.ValidateReferralCode)
	referrals.Get("/discounts/validate/:code", referralsController.ValidateDiscountCode)
	referrals.Get("/admin/settings", authMiddleware, adminMiddleware, referralsController.GetSettings)
	referrals.Put("/admin/settings", authMiddleware, adminMiddleware, referralsController.UpdateSettings)
	referrals.Get("/admin/all", authMiddleware, adminMiddleware, referralsController.GetAllReferrals)
	referrals.Get("/admin/stats", authMiddleware, adminMiddleware, referralsController.GetAdminStats)
	referrals.Get("/admin/discount-codes", authMiddleware, adminMiddleware, referralsController.GetDiscountCodes)
	referrals.Post("/admin/discount-codes", authMiddleware, adminMiddleware, referralsController.CreateDiscountCode)
	referrals.Put("/admin/discount-codes/:id/toggle", authMiddleware, adminMiddleware, referralsController.ToggleDiscountCode)
	referrals.Delete("/admin/discount-codes/:id", authMiddleware, adminMiddleware, referralsController.DeleteDiscountCode)
}
