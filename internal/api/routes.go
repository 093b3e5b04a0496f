package api

import (
	"net/http"

	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. The trainer/admin role
// gate sits on every resource group; the ownership decision itself lives
// in the service layer's access policy.
func SetupRoutes(
	router *gin.Engine,
	corsOrigin string,
	jwtSecret string,
	authService service.AuthService,
	clientService service.ClientService,
	planService service.PlanService,
	checkInService service.CheckInService,
	mlService service.MLService,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	planHandler := NewPlanHandler(planService)
	checkInHandler := NewCheckInHandler(checkInService)
	mlHandler := NewMLHandler(mlService)

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{corsOrigin},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	authMiddleware := AuthMiddleware(jwtSecret)
	trainerOrAdmin := RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin)

	// Liveness, no auth.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
	}

	protected := router.Group("")
	protected.Use(authMiddleware, trainerOrAdmin)
	{
		clientsGroup := protected.Group("/clients")
		{
			clientsGroup.GET("", clientHandler.ListClients)
			clientsGroup.POST("", clientHandler.CreateClient)
			clientsGroup.GET("/:clientId", clientHandler.GetClient)
			clientsGroup.PATCH("/:clientId", clientHandler.UpdateClient)

			clientsGroup.GET("/:clientId/plans", planHandler.ListPlans)
			clientsGroup.POST("/:clientId/plans", planHandler.CreatePlan)

			clientsGroup.GET("/:clientId/checkins", checkInHandler.ListCheckIns)
			clientsGroup.POST("/:clientId/checkins", checkInHandler.CreateCheckIn)
		}

		protected.PATCH("/plans/:id", planHandler.UpdatePlan)
		protected.DELETE("/plans/:id", planHandler.DeletePlan)

		protected.PATCH("/checkins/:id", checkInHandler.UpdateCheckIn)
		protected.DELETE("/checkins/:id", checkInHandler.DeleteCheckIn)
		protected.POST("/checkins/:id/photo", checkInHandler.CreatePhotoUpload)
		protected.GET("/checkins/:id/photo", checkInHandler.GetPhotoDownload)

		mlGroup := protected.Group("/ml")
		{
			mlGroup.GET("/health", mlHandler.Health)
			mlGroup.POST("/predict-weight", mlHandler.PredictWeight)
		}
	}
}
