package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/audit"
	authpkg "github.com/pawpoint/vetclinic/internal/auth"
	"github.com/pawpoint/vetclinic/internal/config"
	"github.com/pawpoint/vetclinic/internal/handlers"
	infraRepo "github.com/pawpoint/vetclinic/internal/infra/repository"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/storage"
	ucAppointment "github.com/pawpoint/vetclinic/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	registry, err := audit.DefaultRegistry()
	if err != nil {
		log.Fatalf("invalid audit registry: %v", err)
	}

	recorder := audit.NewRecorder(db, registry)
	classifier := audit.DefaultClassifier()
	denylist := authpkg.NewTokenDenylist(rdb)
	photos := storage.NewPhotoStore(cfg)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db, recorder)
	auditLogRepo := infraRepo.NewAuditLogRepository(db)
	customerStore := infraRepo.NewStore[models.Customer](db, recorder)
	petStore := infraRepo.NewStore[models.Pet](db, recorder)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, recorder, denylist)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	customerHandler := handlers.NewCustomerHandler(customerStore)
	petHandler := handlers.NewPetHandler(petStore, photos)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	prescriptionHandler := handlers.NewPrescriptionHandler(db, recorder)
	purchaseOrderHandler := handlers.NewPurchaseOrderHandler(db, recorder)
	invoiceHandler := handlers.NewInvoiceHandler(db, recorder)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogRepo, recorder)

	publicHandler := handlers.NewPublicHandler(db, getAvailabilityUC)

	// ======================================================
	// API PÚBLICA + AUTH
	// ======================================================
	api := r.Group("/api")
	{
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
		}

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// ======================================================
	// API PRIVADA
	//
	// Staff sections mount at the root so the page-view classifier
	// sees the paths its tables describe.
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg, denylist))
	secured.Use(middleware.PageViewAudit(recorder, classifier))
	{
		secured.POST("/auth/logout", authHandler.Logout)

		secured.GET("/me", meHandler.GetMe)
		secured.GET("/me/clinic", clinicHandler.GetMeClinic)
		secured.PATCH("/me/clinic", clinicHandler.UpdateMeClinic)

		secured.GET("/me/services", serviceHandler.List)
		secured.POST("/me/services", serviceHandler.Create)
		secured.PATCH("/me/services/:id", serviceHandler.Update)

		secured.GET("/me/pets", petHandler.List)
		secured.GET("/me/pets/archived", petHandler.ListArchived)
		secured.GET("/me/pets/:id", petHandler.Get)
		secured.POST("/me/pets", petHandler.Create)
		secured.PATCH("/me/pets/:id", petHandler.Update)
		secured.DELETE("/me/pets/:id", petHandler.Delete)
		secured.POST("/me/pets/:id/restore", petHandler.Restore)
		secured.POST("/me/pets/:id/photo", petHandler.UploadPhoto)

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		secured.POST("/me/appointments", appointmentHandler.Create)
		secured.GET("/me/appointments", appointmentHandler.ListByDate)
		secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
		secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
		secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

		// ------------------------------
		// CRM
		// ------------------------------
		secured.GET("/crm/customers", customerHandler.List)
		secured.GET("/crm/customers/archived", customerHandler.ListArchived)
		secured.GET("/crm/customers/:id", customerHandler.Get)
		secured.POST("/crm/customers", customerHandler.Create)
		secured.PATCH("/crm/customers/:id", customerHandler.Update)
		secured.DELETE("/crm/customers/:id", customerHandler.Delete)
		secured.POST("/crm/customers/:id/restore", customerHandler.Restore)

		// ------------------------------
		// PHARMACY
		// ------------------------------
		secured.GET("/pharmacy/prescriptions", prescriptionHandler.List)
		secured.GET("/pharmacy/prescriptions/:id", prescriptionHandler.Get)
		secured.POST("/pharmacy/prescriptions", prescriptionHandler.Create)
		secured.POST("/pharmacy/prescriptions/:id/refill", prescriptionHandler.Refill)
		secured.POST("/pharmacy/prescriptions/:id/cancel", prescriptionHandler.Cancel)

		// ------------------------------
		// INVENTORY
		// ------------------------------
		secured.GET("/inventory/purchase-orders", purchaseOrderHandler.List)
		secured.POST("/inventory/purchase-orders", purchaseOrderHandler.Create)
		secured.PATCH("/inventory/purchase-orders/:id", purchaseOrderHandler.Update)
		secured.POST("/inventory/purchase-orders/:id/place", purchaseOrderHandler.Place)
		secured.POST("/inventory/purchase-orders/:id/receive", purchaseOrderHandler.Receive)

		// ------------------------------
		// BILLING
		// ------------------------------
		secured.GET("/billing/invoices", invoiceHandler.List)
		secured.POST("/billing/invoices", invoiceHandler.Create)
		secured.POST("/billing/invoices/:id/issue", invoiceHandler.Issue)
		secured.POST("/billing/invoices/:id/void", invoiceHandler.Void)

		// ------------------------------
		// AUDIT (admin-only; outside the classified sections so the
		// dashboard itself does not generate view records)
		// ------------------------------
		admin := secured.Group("/admin")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/audit-logs", auditLogsHandler.List)
			admin.GET("/audit-logs/history", auditLogsHandler.History)
			admin.GET("/audit-logs/summary", auditLogsHandler.Summary)
			admin.GET("/audit-logs/export", auditLogsHandler.Export)
		}
	}
}
