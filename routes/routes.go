package routes

import (
	"os"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/controllers"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{
		"http://localhost:5173",
		"http://localhost:3000",
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(config.MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public routes: everything the marketing site and booking wizard need
	{
		api.GET("/services", controllers.GetServices)
		api.GET("/services/:id", controllers.GetService)

		api.GET("/appointments/availability", controllers.GetAvailability)
		api.POST("/appointments", controllers.CreateAppointment)

		api.GET("/settings", controllers.GetSettings)
		api.GET("/gallery", controllers.GetGallery)
		api.GET("/service-images/service/:serviceId", controllers.GetServiceImages)

		api.GET("/testimonials/published", controllers.GetPublishedTestimonials)
		api.GET("/testimonials/public/:uniqueLink", controllers.GetPublicTestimonial)
		api.POST("/testimonials/submit/:uniqueLink", controllers.SubmitTestimonial)
	}

	// Admin routes
	admin := api.Group("")
	admin.Use(utils.AuthMiddleware())
	{
		services := admin.Group("/services")
		{
			services.GET("/all", controllers.GetAllServices)
			services.POST("", controllers.CreateService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		clients := admin.Group("/clients")
		{
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.GET("/:id/history", controllers.GetClientHistory)
			clients.POST("", controllers.CreateClient)
			clients.PUT("/:id", controllers.UpdateClient)
		}

		appointments := admin.Group("/appointments")
		{
			appointments.GET("", controllers.GetAppointments)
			appointments.PATCH("/:id/status", controllers.UpdateAppointmentStatus)
		}

		testimonials := admin.Group("/testimonials")
		{
			testimonials.GET("", controllers.GetTestimonials)
			testimonials.POST("/generate-link/:appointmentId", controllers.GenerateTestimonialLink)
			testimonials.GET("/link-info/:appointmentId", controllers.GetTestimonialLinkInfo)
			testimonials.PUT("/:id/publish", controllers.PublishTestimonial)
			testimonials.DELETE("/:id", controllers.DeleteTestimonial)
		}

		gallery := admin.Group("/gallery")
		{
			gallery.POST("", controllers.CreateGalleryImage)
			gallery.DELETE("/:id", controllers.DeleteGalleryImage)
		}

		serviceImages := admin.Group("/service-images")
		{
			serviceImages.POST("", controllers.CreateServiceImage)
			serviceImages.DELETE("/:id", controllers.DeleteServiceImage)
		}

		admin.PUT("/settings", controllers.UpdateSettings)
		admin.GET("/dashboard", controllers.GetDashboardOverview)
		admin.GET("/reminders/logs", controllers.GetReminderLogs)
	}

	return r
}
