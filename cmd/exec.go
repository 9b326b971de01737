package cmd

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mm-tickets/config"
	"mm-tickets/internal/handlers"
	"mm-tickets/internal/notify"
	"mm-tickets/internal/realtime"
	"mm-tickets/internal/services"
	"mm-tickets/internal/services/gateway/paystack"
	"mm-tickets/internal/store"
	"mm-tickets/security"
	"mm-tickets/utils"

	_ "mm-tickets/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	event := notify.EventInfo{
		Title: cfg.EventTitle,
		Date:  cfg.EventDate,
		Venue: cfg.EventVenue,
	}

	// Initialize payment gateway
	gw := paystack.New(&paystack.Config{
		BaseURL:   cfg.PaystackBaseURL,
		SecretKey: cfg.PaystackSecretKey,
	})

	// Initialize notifications
	notifier := notify.NewResend(&notify.ResendConfig{
		APIKey:          cfg.ResendAPIKey,
		Domain:          cfg.ResendDomain,
		FromName:        cfg.ResendFromName,
		AdminRecipients: cfg.AdminRecipients,
		Event:           event,
	})

	// Initialize realtime admin channel
	var announcer services.AdminAnnouncer
	if cfg.PubNubPublishKey != "" {
		announcer = realtime.New(&realtime.Config{
			PublishKey:   cfg.PubNubPublishKey,
			SubscribeKey: cfg.PubNubSubscribeKey,
			UserID:       cfg.PubNubUserID,
			AdminChannel: cfg.PubNubAdminChannel,
		})
	}

	// Initialize services
	st := store.New(app)
	promoService := services.NewPromoService(st)
	waitlistService := services.NewWaitlistService(st)
	ticketService := services.NewTicketService(st, promoService, gw, waitlistService, cfg.PaymentCallbackURL)
	paymentService := services.NewPaymentService(st, gw, notifier)
	manualService := services.NewManualService(st, promoService, notifier, announcer)

	limiter := security.NewRateLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow)
	guard := security.NewAdminGuard(cfg.AdminKeyHash)

	// Initialize handlers
	ticketHandler := handlers.NewTicketHandler(ticketService, limiter, guard)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	manualHandler := handlers.NewManualPaymentHandler(manualService, limiter, guard)
	promoHandler := handlers.NewPromoHandler(promoService, guard)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistService, limiter, guard)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Ticket endpoints
		e.Router.POST("/api/v1/tickets", ticketHandler.CreateTicket)
		e.Router.GET("/api/v1/tickets/{code}", ticketHandler.GetTicket)
		e.Router.POST("/api/v1/tickets/{code}/check-in", ticketHandler.CheckIn)

		// Payment endpoints
		e.Router.GET("/api/v1/payments/verify", paymentHandler.VerifyPayment)
		e.Router.POST("/api/v1/payments/paystack/webhook", paymentHandler.PaystackWebhook)

		// Manual payment endpoints
		e.Router.POST("/api/v1/manual-payments", manualHandler.Submit)

		// Promo endpoints
		e.Router.POST("/api/v1/validate-promo", promoHandler.ValidatePromo)

		// Waitlist endpoints
		e.Router.POST("/api/v1/waitlist", waitlistHandler.Join)

		// Admin endpoints
		e.Router.GET("/api/v1/admin/tickets", ticketHandler.ListTickets)
		e.Router.GET("/api/v1/admin/manual-payments", manualHandler.ListPending)
		e.Router.POST("/api/v1/admin/manual-payments/{ref}/confirm", manualHandler.Confirm)
		e.Router.POST("/api/v1/admin/manual-payments/{ref}/reject", manualHandler.Reject)
		e.Router.GET("/api/v1/admin/promo-codes", promoHandler.ListPromos)
		e.Router.POST("/api/v1/admin/promo-codes", promoHandler.CreatePromo)
		e.Router.POST("/api/v1/admin/promo-codes/{code}/deactivate", promoHandler.DeactivatePromo)
		e.Router.GET("/api/v1/admin/waitlist", waitlistHandler.List)

		// Metrics
		e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	return app.Start()
}
