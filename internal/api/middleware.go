package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	initDataHeader  = "X-Telegram-Init-Data"

	ctxRequestID = "request_id"
	ctxInitUser  = "init_data_user_id"
)

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one zap line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logging.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logging.Warn("HTTP request", fields...)
		default:
			logging.Info("HTTP request", fields...)
		}
	}
}

// InitData validates Telegram mini app init data sent in the X-Telegram-Init-Data header
// and stores the Telegram user id in the context. Invalid data is always rejected;
// missing data is rejected only when required is set.
func InitData(botToken string, ttl time.Duration, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(initDataHeader)
		if raw == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "telegram init data required"})
				return
			}
			c.Next()
			return
		}

		if err := initdata.Validate(raw, botToken, ttl); err != nil {
			logging.Warn("Rejected init data", zap.Error(err), zap.String("request_id", c.GetString(ctxRequestID)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid telegram init data"})
			return
		}
		data, err := initdata.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to parse telegram init data"})
			return
		}
		if data.User.ID != 0 {
			c.Set(ctxInitUser, data.User.ID)
		}
		c.Next()
	}
}
