package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel/internal/config"
	"hotel/internal/middleware"
	"hotel/internal/modules/booking"
	"hotel/internal/modules/charge"
	"hotel/internal/modules/invoice"
	"hotel/internal/modules/payment"
	"hotel/internal/modules/room"
	"hotel/internal/pkg/gateway"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/metrics"
	"hotel/internal/repository"
)

// Deps is everything the router needs from the process.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *logrus.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	userRepo := repository.NewUserRepository(d.DB)
	roomRepo := repository.NewRoomRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	serviceRepo := repository.NewServiceRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)
	invoiceRepo := repository.NewInvoiceRepository(d.DB)

	j := jwt.New(cfg.JWT.Secret, cfg.JWT.TTL)
	calculator := charge.NewCalculator(bookingRepo, serviceRepo)
	gw := gateway.NewClient(gateway.Config{
		TmnCode:    cfg.Gateway.TmnCode,
		HashSecret: cfg.Gateway.HashSecret,
		BaseURL:    cfg.Gateway.BaseURL,
		ReturnURL:  cfg.Gateway.ReturnURL,
		Locale:     cfg.Gateway.Locale,
		CurrCode:   cfg.Gateway.CurrCode,
	})

	bookingService := booking.NewService(d.DB, bookingRepo, roomRepo, serviceRepo, userRepo, d.Log, d.Metrics)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(d.DB, bookingRepo, paymentRepo, calculator, bookingService, gw, d.Log, d.Metrics)
	paymentHandler := payment.NewHandler(paymentService, cfg.Gateway.FrontendResultURL, d.Log)

	invoiceService := invoice.NewService(d.DB, bookingRepo, paymentRepo, invoiceRepo, calculator,
		cfg.Invoice.AllowPlaceholderPayment, d.Log, d.Metrics)
	invoiceHandler := invoice.NewHandler(invoiceService)

	roomHandler := room.NewHandler(room.NewService(roomRepo))

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(d.Log, d.Metrics), middleware.CORS(cfg.CORS.Origins))

	r.GET("/health", func(c *gin.Context) {
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		// public, signature-authenticated
		paymentHandler.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(j))
		{
			roomHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			invoiceHandler.RegisterRoutes(protected)
		}
	}

	return r
}
