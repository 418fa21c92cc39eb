package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/audit"
	"github.com/careclinic/clinic-scheduler/internal/config"
	"github.com/careclinic/clinic-scheduler/internal/handlers"
	infraRepo "github.com/careclinic/clinic-scheduler/internal/infra/repository"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
	"github.com/careclinic/clinic-scheduler/internal/storage"
	"github.com/careclinic/clinic-scheduler/internal/tokenstore"
	ucAppointment "github.com/careclinic/clinic-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, tokens *tokenstore.RedisStore) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	s3Store := storage.NewS3Store(cfg)

	// ======================================================
	// APPOINTMENT USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, tokens)
	userHandler := handlers.NewUserHandler(db)

	doctorHandler := handlers.NewDoctorHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		getAppointmentUC,
	)

	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	cartHandler := handlers.NewCartHandler(db)
	uploadsHandler := handlers.NewUploadsHandler(db, s3Store)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		// ------------------------------
		// PUBLIC READS
		// ------------------------------
		api.GET("/doctors", doctorHandler.List)
		api.GET("/doctors/search", doctorHandler.Search)
		api.GET("/doctors/:id", doctorHandler.Get)
		api.GET("/doctors/:id/services", serviceHandler.ListByDoctor)
		api.GET("/services/:id", serviceHandler.Get)

		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:id", categoryHandler.Get)
		api.GET("/products", productHandler.List)
		api.GET("/products/search", productHandler.Search)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/products/:id/image", uploadsHandler.GetProductImage)
		api.GET("/reviews", reviewHandler.List)
		api.GET("/reviews/:id", reviewHandler.Get)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", userHandler.GetMe)
			secured.PATCH("/me/password", userHandler.ChangePassword)

			// ------------------------------
			// DIRECTORY
			// ------------------------------
			secured.POST("/doctors", doctorHandler.Create)
			secured.PATCH("/doctors/:id", doctorHandler.Update)

			secured.POST("/patients", patientHandler.Create)
			secured.GET("/patients/:id", patientHandler.Get)
			secured.PATCH("/patients/:id", patientHandler.Update)

			secured.POST("/services",
				middleware.RequireRoles(models.RoleDoctor), serviceHandler.Create)
			secured.PATCH("/services/:id",
				middleware.RequireRoles(models.RoleDoctor), serviceHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Reschedule)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/complete", appointmentHandler.Complete)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.POST("/products", productHandler.Create)
			secured.PATCH("/products/:id", productHandler.Update)
			secured.DELETE("/products/:id", productHandler.Delete)

			secured.POST("/reviews", reviewHandler.Create)
			secured.PATCH("/reviews/:id", reviewHandler.Update)
			secured.DELETE("/reviews/:id", reviewHandler.Delete)

			secured.GET("/cart", cartHandler.Get)
			secured.POST("/cart/items", cartHandler.AddItem)
			secured.PATCH("/cart/items/:id", cartHandler.UpdateItem)
			secured.DELETE("/cart/items/:id", cartHandler.RemoveItem)

			secured.POST("/uploads/products/:id", uploadsHandler.UploadProductImage)
			secured.DELETE("/uploads/products/:id", uploadsHandler.DeleteProductImage)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/patients", patientHandler.List)

				admin.POST("/categories", categoryHandler.Create)
				admin.PATCH("/categories/:id", categoryHandler.Update)
				admin.DELETE("/categories/:id", categoryHandler.Delete)

				admin.PATCH("/users/:id/activate", userHandler.SetActive(true))
				admin.PATCH("/users/:id/deactivate", userHandler.SetActive(false))
			}
		}
	}
}
