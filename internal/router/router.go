// Package router wires the HTTP surface of the backend.
package router

import (
	"strings"

	"github.com/centsible/backend/internal/config"
	"github.com/centsible/backend/internal/controllers"
	"github.com/centsible/backend/internal/mail"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Router sets up the gin engine with all middlewares and routes.
func Router(cfg config.Config, sender mail.Sender) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if cfg.AllowedOrigins != "" {
		log.Debug().Str("allowOrigins", cfg.AllowedOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(cfg.AllowedOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	/*
	 *  Route setup
	 */
	controllers.RegisterHealthzRoutes(r.Group("/healthz"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(r)

	api := r.Group("/api")

	// Public routes
	controllers.RegisterAuthRoutes(api.Group("/auth"), cfg, sender)

	// Everything else requires an authenticated, active account
	protected := api.Group("", controllers.Authenticate(cfg.JWTSecret))
	controllers.RegisterPasswordRoute(protected.Group("/auth"))
	controllers.RegisterAccountRoutes(protected.Group("/account"))
	controllers.RegisterIncomeRoutes(protected.Group("/incomes"))
	controllers.RegisterExpenseRoutes(protected.Group("/expenses"))
	controllers.RegisterBudgetRoutes(protected.Group("/budgets"))
	controllers.RegisterGoalRoutes(protected.Group("/goals"))
	controllers.RegisterTransactionRoutes(protected.Group("/transactions"))

	log.Info().Msg("backend startup complete")

	return r, nil
}
