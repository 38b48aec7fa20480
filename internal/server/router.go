// Package server assembles the portal HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/repairmen"
	"spaceship-fleet/maintenance-portal/internal/requests"
	"spaceship-fleet/maintenance-portal/internal/spaceships"
	"spaceship-fleet/maintenance-portal/internal/stream"
)

// Dependencies are the components the router dispatches to.
type Dependencies struct {
	Services       Services
	Hub            *stream.Hub
	DB             *gorm.DB
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine serving the REST API, the per-entity
// update streams and the liveness endpoints.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		Logger(deps.Logger),
		apierr.Recovery(deps.Logger),
		corsMiddleware(deps.AllowedOrigins),
	)

	router.GET("/spaceships/updates/stream", deps.Hub.ServeSSE(stream.TopicSpaceships))
	router.GET("/repairmen/updates/stream", deps.Hub.ServeSSE(stream.TopicRepairmen))
	router.GET("/maintenance-requests/updates/stream", deps.Hub.ServeSSE(stream.TopicMaintenanceRequests))

	root := router.Group("")
	{
		spaceships.NewHandler(deps.Services.Spaceships, deps.Logger).RegisterRoutes(root)
		repairmen.NewHandler(deps.Services.Repairmen, deps.Logger).RegisterRoutes(root)
		requests.NewHandler(deps.Services.Requests, deps.Logger).RegisterRoutes(root)
	}

	router.GET("/ws/:topic", deps.Hub.ServeWS)
	router.GET("/pinger", deps.Hub.ServeSSE(stream.TopicPing))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, stream.PongPayload)
	})
	router.GET("/health", health(deps.DB, deps.Hub))

	return router
}

func health(db *gorm.DB, hub *stream.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		database := "up"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx, db); err != nil {
			status, code, database = "degraded", http.StatusServiceUnavailable, err.Error()
		}

		streams := gin.H{}
		for _, topic := range []string{stream.TopicSpaceships, stream.TopicRepairmen, stream.TopicMaintenanceRequests, stream.TopicPing} {
			streams[topic] = hub.SubscriberCount(topic)
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"streams":   streams,
			"timestamp": time.Now(),
		})
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
