// internal/api/router.go
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rovshanmuradov/teleswap-backend/internal/exchange"
)

// ExchangeService is the part of exchange.Service the HTTP API uses.
type ExchangeService interface {
	RecordExchange(ctx context.Context, ev exchange.Event) error
	UserLanguage(ctx context.Context, userID int64) (string, error)
}

// ReadinessCheck reports whether dependencies such as the database are reachable.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	AllowedOrigins  []string
	BotToken        string
	InitDataTTL     time.Duration
	RequireInitData bool
	Ready           ReadinessCheck
	Debug           bool
}

func NewRouter(svc ExchangeService, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), AccessLog(), gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	h := &handler{svc: svc, ready: opts.Ready}

	r.GET("/health", h.health)
	r.GET("/ready", h.readiness)
	r.GET("/lang/:userID", h.language)
	r.POST("/log-exchange", InitData(opts.BotToken, opts.InitDataTTL, opts.RequireInitData), h.logExchange)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader, initDataHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
