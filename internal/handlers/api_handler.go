package handlers

import (
	"context"
	"net/http"
	"time"

	"press_admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"
)

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	checks map[string]Pinger
}

func NewAPIHandler(checks map[string]Pinger) *APIHandler {
	return &APIHandler{checks: checks}
}

func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			middleware.GetLogger(c).Warn("health check failed", zap.String("check", name), zap.Error(err))
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "up"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
}

// Router bundles everything RegisterRoutes needs.
type Router struct {
	API          *APIHandler
	Auth         *AuthHandler
	Accounts     *AccountHandler
	RecycleBin   *RecycleBinHandler
	Jobs         *JobHandler
	WhatsApp     *WhatsAppHandler
	RequireLogin gin.HandlerFunc
	LoginLimiter *limiter.Limiter
	Gatherer     prometheus.Gatherer
}

func (r *Router) Register(router *gin.Engine) {
	router.GET("/health", r.API.Health)
	if r.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := router.Group("/api/auth")
	{
		login := []gin.HandlerFunc{r.Auth.Login}
		if r.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{middleware.RateLimit(r.LoginLimiter)}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", r.Auth.Logout)
		auth.GET("/me", r.RequireLogin, r.Auth.Me)
	}

	api := router.Group("/api", r.RequireLogin)

	admin := api.Group("", middleware.RequireAdmin())
	{
		admin.POST("/accounts", r.Accounts.CreateAccount)
		admin.GET("/accounts", r.Accounts.ListAccounts)
		admin.POST("/accounts/import", r.Accounts.ImportAccounts)
		admin.GET("/accounts/export.xlsx", r.Accounts.ExportXLSX)
		admin.GET("/accounts/export.pdf", r.Accounts.ExportPDF)
		admin.GET("/accounts/:id", r.Accounts.GetAccount)
		admin.PUT("/accounts/:id", r.Accounts.UpdateAccount)
		admin.DELETE("/accounts/:id", r.Accounts.DeleteAccount)
		admin.GET("/accounts/:id/whatsapp", r.WhatsApp.WelcomeLink)
		admin.POST("/accounts/:id/whatsapp/send", r.WhatsApp.SendWelcome)

		admin.GET("/recycle-bin", r.RecycleBin.List)
		admin.POST("/recycle-bin/:id/restore", r.RecycleBin.Restore)
		admin.DELETE("/recycle-bin/:id", r.RecycleBin.Purge)
	}

	jobs := api.Group("/jobs", middleware.RequireStaff())
	{
		jobs.POST("", r.Jobs.CreateJob)
		jobs.GET("", r.Jobs.ListJobs)
		jobs.GET("/parties", r.Jobs.PartyNames)
		jobs.POST("/workbook-sheets", r.Jobs.WorkbookSheets)
		jobs.GET("/:id", r.Jobs.GetJob)
		jobs.PUT("/:id", r.Jobs.UpdateJob)
		jobs.DELETE("/:id", r.Jobs.DeleteJob)
	}
}
