// Package httpapi exposes the services as a JSON-over-HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/auth"
	"issueTracking/internal/service"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router needs.
type Deps struct {
	Auth     *service.AuthService
	Issues   *service.IssueService
	Tags     *service.TagService
	Projects *service.ProjectService
	Audit    *service.AuditService
	Tokens   *auth.TokenIssuer
	Store    Pinger
	Metrics  *Metrics
	Log      *slog.Logger
}

type handler struct {
	Deps
}

// NewRouter builds the gin engine with every route and middleware attached.
func NewRouter(d Deps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	h := &handler{Deps: d}
	gate := func(op auth.Operation) gin.HandlerFunc { return authorize(d.Tokens, op) }

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), d.Metrics.middleware(), accessLog(d.Log))
	r.NoRoute(func(c *gin.Context) { message(c, http.StatusNotFound, "not found") })

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	a := r.Group("/auth")
	{
		a.POST("/register", gate(auth.OpRegister), h.register)
		a.POST("/login", gate(auth.OpLogin), h.login)
	}

	issues := r.Group("/issues")
	{
		issues.GET("", gate(auth.OpIssueRead), h.listIssues)
		issues.GET("/search", gate(auth.OpIssueRead), h.searchIssues)
		issues.GET("/:id", gate(auth.OpIssueRead), h.getIssue)
		issues.POST("", gate(auth.OpIssueWrite), h.createIssue)
		issues.PUT("/:id", gate(auth.OpIssueWrite), h.updateIssue)
		issues.PUT("/:id/status", gate(auth.OpIssueWrite), h.updateIssueStatus)
		issues.DELETE("/:id", gate(auth.OpIssueWrite), h.deleteIssue)
		issues.POST("/:id/tags", gate(auth.OpIssueWrite), h.addIssueTag)
		issues.DELETE("/:id/tags/:tagId", gate(auth.OpIssueWrite), h.removeIssueTag)
	}

	tags := r.Group("/tags")
	{
		tags.GET("", gate(auth.OpTagRead), h.listTags)
		tags.GET("/:id", gate(auth.OpTagRead), h.getTag)
		tags.POST("", gate(auth.OpTagWrite), h.createTag)
		tags.PUT("/:id", gate(auth.OpTagWrite), h.updateTag)
		tags.DELETE("/:id", gate(auth.OpTagWrite), h.deleteTag)
	}

	projects := r.Group("/projects")
	{
		projects.GET("", gate(auth.OpProjectRead), h.listProjects)
		projects.GET("/:id", gate(auth.OpProjectRead), h.getProject)
		projects.POST("", gate(auth.OpProjectWrite), h.createProject)
		projects.PUT("/:id", gate(auth.OpProjectWrite), h.updateProject)
	}

	r.GET("/audit-logs", gate(auth.OpAuditRead), h.listAuditLogs)
	return r
}

func (h *handler) health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		h.Log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
