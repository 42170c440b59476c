package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/cleanpro-api/internal/config"
	"github.com/BruksfildServices01/cleanpro-api/internal/handlers"
	"github.com/BruksfildServices01/cleanpro-api/internal/metrics"
	"github.com/BruksfildServices01/cleanpro-api/internal/middleware"
	"github.com/BruksfildServices01/cleanpro-api/internal/rpc"
	"github.com/BruksfildServices01/cleanpro-api/internal/session"
	"github.com/BruksfildServices01/cleanpro-api/internal/store"
	"github.com/BruksfildServices01/cleanpro-api/internal/timezone"
	ucDashboard "github.com/BruksfildServices01/cleanpro-api/internal/usecase/dashboard"
)

type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Sessions *session.Manager
	Audit    handlers.Auditor
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) *rpc.Router {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(d.Log),
		middleware.RequestLogger(),
		middleware.CORS(d.Config.CORSOrigins),
		middleware.Session(d.Sessions, d.Store.Users),
	)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	// ======================================================
	// USE CASES
	// ======================================================
	loc := timezone.Location(d.Config.Timezone)
	summarize := ucDashboard.NewSummarize(d.Store.Orders, d.Store.Clients, d.Store.Schedules, loc)

	// ======================================================
	// PROCEDURES
	// ======================================================
	router := rpc.NewRouter(d.Metrics)

	handlers.NewAuthHandler(d.Store, d.Sessions, handlers.AuthConfig{
		ProviderSecretHash: d.Config.ProviderSecretHash,
		SecureCookie:       d.Config.IsProduction(),
	}, d.Audit).Register(router)
	handlers.NewClientHandler(d.Store, d.Audit).Register(router)
	handlers.NewOrderHandler(d.Store, d.Audit).Register(router)
	handlers.NewOrderItemHandler(d.Store, d.Audit).Register(router)
	handlers.NewScheduleHandler(d.Store, d.Audit).Register(router)
	handlers.NewDashboardHandler(summarize, loc).Register(router)
	handlers.NewAuditLogsHandler(d.Store).Register(router)

	// ======================================================
	// HTTP
	// ======================================================
	r.GET("/health", health(d.Store))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	router.Mount(r.Group("/api"))
	return router
}

// health reports degraded instead of failing: reads keep working with
// empty data while the database is away.
func health(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "database": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
