package router

import (
	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/handler"
	"leadmart/internal/middleware"
	"leadmart/internal/repository"
	"leadmart/internal/service"
	"leadmart/internal/ws"
	"leadmart/pkg/cloudinary"
	"leadmart/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Env == domain.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow, log)
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	quotaRepo := repository.NewQuotaRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	contactRepo := repository.NewContactRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	cashoutRepo := repository.NewCashoutRepository(db)
	bankRepo := repository.NewBankDetailRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	hub := ws.NewHub()

	// Services
	quotaSvc := service.NewQuotaService(quotaRepo, log)
	subSvc := service.NewSubscriptionService(subRepo)
	leadSvc := service.NewLeadService(&cfg.Leads, leadRepo, prefRepo, quotaSvc, subSvc, log)
	purchaseSvc := service.NewPurchaseService(db, quotaSvc, subSvc, quotaRepo, leadRepo, purchaseRepo, paymentRepo, provider, log)
	contactSvc := service.NewContactService(contactRepo, leadRepo, quotaRepo, quotaSvc, purchaseSvc, hub, log)
	referralSvc := service.NewReferralService(db, &cfg.Referral, referralRepo, walletRepo, cashoutRepo, bankRepo, log)
	authSvc := service.NewAuthService(cfg, userRepo, referralSvc, log)
	migrationSvc := service.NewMigrationService(db, log)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, authSvc, log)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	leadHandler := handler.NewLeadHandler(leadSvc, purchaseSvc, log)
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc, purchaseRepo, contactRepo, log)
	contactHandler := handler.NewContactHandler(contactSvc, contactRepo, log)
	prefHandler := handler.NewPreferenceHandler(prefRepo)
	subHandler := handler.NewSubscriptionHandler(cfg, subSvc, subRepo, paymentRepo, provider, log)
	quotaHandler := handler.NewQuotaHandler(quotaSvc, subSvc)
	referralHandler := handler.NewReferralHandler(referralSvc, bankRepo, log)
	adminHandler := handler.NewAdminHandler(authSvc, referralSvc, migrationSvc, log)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, db, paymentRepo, subRepo, purchaseSvc, subSvc, referralSvc, log)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	vendorMw := middleware.RequireRole(domain.RoleVendor, domain.RoleAdmin)
	buyerMw := middleware.RequireRole(domain.RoleBuyer, domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/plans", subHandler.Plans)

		// Mounted again behind auth so quota-bearing routes are
		// throttled per vendor rather than per source address.
		vendorLimit := middleware.RateLimit(limiter)

		leads := api.Group("/leads")
		leads.Use(authMw, vendorLimit)
		{
			leads.GET("", vendorMw, leadHandler.Feed)
			leads.POST("", buyerMw, leadHandler.Create)
			leads.GET("/proposed", vendorMw, leadHandler.Proposed)
			leads.GET("/:id", leadHandler.Detail)
			leads.POST("/:id/purchase", vendorMw, purchaseHandler.Purchase)
			leads.POST("/:id/contacts", vendorMw, contactHandler.Log)
			leads.GET("/:id/contacts", vendorMw, contactHandler.History)
		}

		api.PATCH("/contacts/:id", authMw, vendorMw, contactHandler.UpdateStatus)

		me := api.Group("/me")
		me.Use(authMw, vendorLimit, vendorMw)
		{
			me.GET("/quota", quotaHandler.Current)
			me.GET("/subscription", subHandler.Current)
			me.POST("/subscription", subHandler.Subscribe)
			me.GET("/purchases", purchaseHandler.Purchased)
			me.GET("/stats", purchaseHandler.Stats)
			me.GET("/preferences", prefHandler.Get)
			me.PUT("/preferences", prefHandler.Save)
			me.GET("/referrals", referralHandler.Overview)
			me.POST("/referrals/link", referralHandler.Link)
			me.GET("/cashouts", referralHandler.Cashouts)
			me.POST("/cashouts", referralHandler.RequestCashout)
			me.GET("/bank-details", referralHandler.BankDetails)
			me.POST("/bank-details", referralHandler.AddBankDetail)
		}

		api.POST("/uploads", authMw, uploadHandler.UploadAttachment)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/users/reset-password", adminHandler.ResetPassword)
			admin.POST("/cashouts/:id/approve", adminHandler.ApproveCashout)
			admin.POST("/cashouts/:id/reject", adminHandler.RejectCashout)
			admin.POST("/referrals/mature", adminHandler.MatureReferralEarnings)
			admin.POST("/vendors/migrate", adminHandler.MigrateVendor)
		}
	}

	r.POST("/webhooks/stripe", webhookHandler.HandleStripe)
	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, hub))

	return r
}
