package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/carelink/internal/audit"
	"github.com/BruksfildServices01/carelink/internal/config"
	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/handlers"
	"github.com/BruksfildServices01/carelink/internal/infra/notify"
	"github.com/BruksfildServices01/carelink/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/carelink/internal/infra/repository"
	"github.com/BruksfildServices01/carelink/internal/infra/storage"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	"github.com/BruksfildServices01/carelink/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/carelink/internal/usecase/appointment"
	"github.com/BruksfildServices01/carelink/internal/usecase/billing"
)

// Dependencies are the long-lived collaborators owned by the caller.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       zerolog.Logger
	Audit     *audit.Dispatcher
	Notifier  *notify.Dispatcher
	Directory directory.Directory
	Gateway   payment.Gateway
	Images    *storage.Images
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	db := deps.DB

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	dir := deps.Directory
	if dir == nil {
		dir = infraRepo.NewDoctorGormRepository(db)
	}

	gateway := deps.Gateway
	if gateway == nil {
		gateway = payment.NewOffline()
	}

	clock := timezone.Clock(cfg.Clinic.Timezone)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		dir,
		domain.NewRequestValidator(cfg.Booking.TimeSlots),
		gateway,
		deps.Audit,
		deps.Notifier,
		ucAppointment.BookingOptions{
			CancelledBlocksSlot: cfg.Booking.CancelledBlocksSlot,
			Currency:            cfg.Payment.Currency,
			ClinicName:          cfg.Clinic.Name,
		},
		deps.Log,
	)

	availabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		dir,
		cfg.Booking.TimeSlots,
		cfg.Booking.CancelledBlocksSlot,
		clock,
	)

	listByEmailUC := ucAppointment.NewListByEmail(appointmentRepo, dir, deps.Log)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, dir, deps.Log)
	updateStatusUC := ucAppointment.NewUpdateStatus(appointmentRepo, deps.Audit)

	billingSvc := billing.NewService(
		appointmentRepo,
		dir,
		deps.Audit,
		billing.NewInvoiceRenderer(cfg.Clinic.Name, cfg.Payment.Currency),
		clock,
		deps.Log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.JWTTTL, deps.Audit)
	meHandler := handlers.NewMeHandler(db)

	bookingHandler := handlers.NewBookingHandler(bookUC, availabilityUC, listByEmailUC)
	appointmentHandler := handlers.NewAppointmentHandler(listAppointmentsUC, updateStatusUC)
	doctorHandler := handlers.NewDoctorHandler(db, dir, deps.Images, deps.Audit, deps.Log)
	serviceHandler := handlers.NewServiceHandler(db, deps.Images, deps.Audit)
	contentHandler := handlers.NewContentHandler(db, deps.Audit)
	messageHandler := handlers.NewMessageHandler(db, deps.Audit)
	billingHandler := handlers.NewBillingHandler(billingSvc)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/doctors", doctorHandler.List)
			public.GET("/doctors/:id", doctorHandler.Get)
			public.GET("/doctors/:id/availability", bookingHandler.Availability)

			public.GET("/services", serviceHandler.List)
			public.GET("/content/:key", contentHandler.Get)
			public.POST("/messages", messageHandler.Submit)

			public.POST("/appointments/quote", bookingHandler.Quote)
			public.POST("/appointments", bookingHandler.Create)
			public.GET("/appointments", bookingHandler.ListByEmail)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			admin.GET("/me", meHandler.GetMe)

			admin.GET("/doctors", doctorHandler.List)
			admin.POST("/doctors", doctorHandler.Create)
			admin.PUT("/doctors/:id", doctorHandler.Update)
			admin.DELETE("/doctors/:id", doctorHandler.Delete)
			admin.POST("/doctors/:id/image", doctorHandler.UploadImage)

			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PUT("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)
			admin.POST("/services/:id/image", serviceHandler.UploadImage)

			admin.PUT("/content/:key", contentHandler.Put)

			admin.GET("/appointments", appointmentHandler.List)
			admin.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)

			admin.GET("/billing", billingHandler.List)
			admin.POST("/billing/:id/refund", billingHandler.Refund)
			admin.GET("/billing/:id/invoice", billingHandler.Invoice)

			admin.GET("/messages", messageHandler.List)
			admin.DELETE("/messages/:id", messageHandler.Delete)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
