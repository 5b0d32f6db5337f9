package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"go.uber.org/zap"
)

type handler struct {
	svc   ExchangeService
	ready ReadinessCheck
}

func (h *handler) logExchange(c *gin.Context) {
	var body exchangePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, &exchange.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	ev, err := body.toEvent(c.ClientIP())
	if err != nil {
		h.fail(c, err)
		return
	}
	// Signed init data owns the user id; the body may only repeat it.
	if id, ok := c.Get(ctxInitUser); ok {
		uid := id.(int64)
		if ev.UserID != nil && *ev.UserID != uid {
			h.fail(c, &exchange.ValidationError{Field: "UserID", Reason: "does not match init data"})
			return
		}
		ev.UserID = &uid
	}

	if err := h.svc.RecordExchange(c.Request.Context(), ev); err != nil {
		h.fail(c, err)
		return
	}
	logging.Debug("Exchange logged", zap.String("exchange_id", ev.ExchangeID), zap.Bool("finished", ev.Finished))
	c.String(http.StatusOK, "Success")
}

func (h *handler) language(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid user id")
		return
	}

	lang, err := h.svc.UserLanguage(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, lang)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) readiness(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			logging.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// fail maps service errors to status codes. Bodies are plain text.
func (h *handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case exchange.IsValidation(err):
		c.String(http.StatusBadRequest, err.Error())
	case exchange.IsNotFound(err):
		c.String(http.StatusNotFound, err.Error())
	default:
		logging.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
