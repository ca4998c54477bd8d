package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/controllers"
	"github.com/phamtan/resort-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	workDir, _ := os.Getwd()
	uploadsPath := filepath.Join(workDir, "public", "uploads")

	// Receipts and invoices are PDFs; nothing else leaves this directory.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			if !strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".pdf") {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})
	r.Static("/uploads", uploadsPath)

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	roomCtrl := controllers.NewRoomController(db)
	serviceCtrl := controllers.NewServiceController(db)
	comboCtrl := controllers.NewComboController(db)
	tierCtrl := controllers.NewTierController(db)
	voucherCtrl := controllers.NewVoucherController(db)
	bookingCtrl := controllers.NewBookingController(db)
	contractCtrl := controllers.NewContractController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	vnpayCtrl := controllers.NewVNPayController(db)
	feedbackCtrl := controllers.NewFeedbackController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/rooms", roomCtrl.GetAllRooms)
	r.GET("/rooms/:room_id", roomCtrl.GetRoomByID)
	r.GET("/rooms/:room_id/feedback", feedbackCtrl.GetRoomFeedback)
	r.GET("/services", serviceCtrl.GetAllServices)
	r.GET("/services/:service_id", serviceCtrl.GetServiceByID)
	r.GET("/combos", comboCtrl.GetAllCombos)
	r.GET("/combos/:combo_id", comboCtrl.GetComboByID)
	r.GET("/tiers", tierCtrl.GetAllTiers)
	r.GET("/vouchers/check", voucherCtrl.CheckVoucher)

	// Everything money-related lives under /payment. The IPN is
	// server-to-server and authenticated by its signature, the return URL
	// renders the customer-facing result, and the initiator plus receipt
	// listing additionally require a session.
	gateway := r.Group("/payment")
	gateway.Use(middlewares.PaymentRateLimiter(), middlewares.LogPaymentRequest())
	{
		gateway.GET("/vnpay-ipn", vnpayCtrl.HandleIPN)
		gateway.GET("/vnpay-return", vnpayCtrl.HandleReturn)

		gateway.POST("/pay", middlewares.EnhancedAuthMiddleware(), paymentCtrl.CreatePayment)
		gateway.GET("/receipts", middlewares.EnhancedAuthMiddleware(), paymentCtrl.GetReceipts)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES
	// ----------------------------------------------------------------
	customer := r.Group("/api")
	customer.Use(middlewares.EnhancedAuthMiddleware())
	{
		customer.GET("/profile", userCtrl.GetProfile)
		customer.POST("/logout", userCtrl.Logout)

		customer.POST("/bookings", bookingCtrl.CreateBooking)
		customer.GET("/bookings", bookingCtrl.GetMyBookings)
		customer.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		customer.POST("/bookings/:booking_id/services", bookingCtrl.AddService)
		customer.POST("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)

		customer.GET("/bookings/:booking_id/contract", contractCtrl.GetContract)
		customer.POST("/bookings/:booking_id/contract/sign", contractCtrl.SignContract)

		customer.POST("/feedback", feedbackCtrl.CreateFeedback)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.EnhancedAuthMiddleware(), middlewares.RequireRole("admin"))
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		admin.POST("/rooms", roomCtrl.CreateRoom)
		admin.PATCH("/rooms/:room_id", roomCtrl.UpdateRoom)
		admin.DELETE("/rooms/:room_id", roomCtrl.DeleteRoom)

		admin.POST("/services", serviceCtrl.CreateService)
		admin.PATCH("/services/:service_id", serviceCtrl.UpdateService)
		admin.DELETE("/services/:service_id", serviceCtrl.DeleteService)

		admin.POST("/combos", comboCtrl.CreateCombo)
		admin.PATCH("/combos/:combo_id", comboCtrl.UpdateCombo)
		admin.DELETE("/combos/:combo_id", comboCtrl.DeleteCombo)

		admin.POST("/tiers", tierCtrl.CreateTier)
		admin.PATCH("/tiers/:tier_id", tierCtrl.UpdateTier)
		admin.DELETE("/tiers/:tier_id", tierCtrl.DeleteTier)

		admin.GET("/vouchers", voucherCtrl.GetAllVouchers)
		admin.POST("/vouchers", voucherCtrl.CreateVoucher)
		admin.PATCH("/vouchers/:voucher_id", voucherCtrl.UpdateVoucher)
		admin.DELETE("/vouchers/:voucher_id", voucherCtrl.DeleteVoucher)

		admin.GET("/bookings", bookingCtrl.GetAllBookings)
		admin.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		admin.POST("/bookings/:booking_id/confirm", bookingCtrl.ConfirmBooking)
		admin.GET("/contracts", contractCtrl.GetAllContracts)

		admin.GET("/payments", paymentCtrl.GetPayments)
		admin.GET("/payments/:txn_ref", paymentCtrl.GetPayment)

		admin.GET("/feedback", feedbackCtrl.GetAllFeedback)
		admin.DELETE("/feedback/:feedback_id", feedbackCtrl.DeleteFeedback)

		admin.GET("/notifications", notificationCtrl.GetNotifications)
		admin.PATCH("/notifications/:notification_id/read", notificationCtrl.MarkAsRead)
		admin.POST("/notifications/read-all", notificationCtrl.MarkAllAsRead)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/reports/revenue", adminCtrl.GetRevenueReport)
	}

	// ----------------------------------------------------------------
	//                      WEBSOCKET
	// ----------------------------------------------------------------
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/dashboard", controllers.HandleDashboardWS)
	}

	return r
}
