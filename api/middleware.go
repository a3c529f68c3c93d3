package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adaudit/adaudit-backend/dto"
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/utils"
)

const actorIdHeader = "X-Actor-Id"

// credentialsMiddleware resolves the acting user from the request headers.
// Authentication proper happens upstream (gateway); this service only needs
// the actor identity for attribution on created records.
func credentialsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId := c.GetHeader(actorIdHeader)
		if actorId == "" && c.Request.Method != http.MethodGet {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIErrorResponse{
				Message:   "missing " + actorIdHeader + " header",
				ErrorCode: dto.UnauthorizedCode,
			})
			return
		}

		ctx := utils.StoreCredentialsInContext(c.Request.Context(), models.Credentials{
			ActorId: actorId,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
