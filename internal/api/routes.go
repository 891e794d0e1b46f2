package api

import (
	"alcyxob/workout-journey/internal/config"
	"alcyxob/workout-journey/internal/service"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface. The route shape mirrors the
// client's expectations: session logging and the dashboard live under
// /api/sessions, one-time subject setup under /api/setup.
func SetupRoutes(
	router *gin.Engine,
	corsCfg config.CORSConfig,
	sessionService service.SessionService,
	subjectID string,
) {
	sessionHandler := NewSessionHandler(sessionService, subjectID)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsCfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Root/status check route, used by uptime monitors.
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Workout Journey API is operational.")
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/setup", sessionHandler.Setup)

		sessionGroup := apiGroup.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.LogSession)
			sessionGroup.GET("", sessionHandler.GetMetrics)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
		}
	}
}
