package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/evidence"
	"progresslog-api/internal/services/health"
	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/server/respond"
	"progresslog-api/internal/shared/upload"
	"progresslog-api/internal/shared/validation"
)

const maxEvidenceFiles = 5

// Deps are the handlers and middleware the route table is built from.
type Deps struct {
	Health   *health.Service
	Evidence *evidence.Handler
	Intake   *upload.Intake
}

// ComingSoon answers for endpoints that are routed and validated but have no
// behavior yet.
func ComingSoon(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond.OK(c, gin.H{"endpoint": c.Request.Method + " " + c.FullPath()}, area+" routes - Coming soon")
	}
}

func id(param string) gin.HandlerFunc { return validation.Identifier(param) }

func query[T any]() gin.HandlerFunc { return validation.Query(validation.Struct[T]()) }

// Register mounts every route group on r.
func Register(r gin.IRouter, deps Deps) {
	api := r.Group("/api/v1")

	registerHealth(api.Group("/health"), deps.Health)
	registerAuth(api.Group("/auth"))
	registerProjects(api.Group("/projects"))
	registerMilestones(api.Group("/milestones"), deps)
	registerEvidence(api.Group("/evidence"), deps.Evidence)
	registerSnapshots(api.Group("/snapshots"))
	registerUsers(api.Group("/users"))
	registerReviews(api.Group("/reviews"))
	registerAdmin(api.Group("/admin"))
	registerPublic(r.Group("/public"))
}

func registerHealth(g *gin.RouterGroup, svc *health.Service) {
	g.GET("", func(c *gin.Context) {
		respond.OK(c, svc.Status(), "Service is healthy")
	})
	g.GET("/db", func(c *gin.Context) {
		status, err := svc.Database(c.Request.Context())
		if err != nil {
			respond.Error(c, http.StatusServiceUnavailable, string(apperr.KindInternal), "database disconnected", nil)
			return
		}
		respond.OK(c, status, "Database is healthy")
	})
}

func registerAuth(g *gin.RouterGroup) {
	stub := ComingSoon("Authentication")
	g.GET("", stub)
	g.POST("/signup", stub)
	g.POST("/login", stub)
	g.GET("/session", stub)
	g.POST("/logout", stub)
}

func registerProjects(g *gin.RouterGroup) {
	stub := ComingSoon("Project")
	g.GET("", stub)
	g.POST("", stub)
	g.GET("/:projectId", id("projectId"), stub)
	g.PUT("/:projectId", id("projectId"), stub)
	g.DELETE("/:projectId", id("projectId"), stub)
	for _, action := range []string{"complete", "abandon", "reopen", "share"} {
		g.POST("/:projectId/"+action, id("projectId"), stub)
	}

	milestones := ComingSoon("Milestone")
	g.GET("/:projectId/milestones", id("projectId"), milestones)
	g.POST("/:projectId/milestones", id("projectId"), milestones)

	snapshots := ComingSoon("Snapshot")
	g.GET("/:projectId/snapshots", id("projectId"), snapshots)
	g.POST("/:projectId/snapshots", id("projectId"), snapshots)
}

func registerMilestones(g *gin.RouterGroup, deps Deps) {
	stub := ComingSoon("Milestone")
	g.GET("", stub)
	g.GET("/:milestoneId", id("milestoneId"), stub)
	g.PUT("/:milestoneId", id("milestoneId"), stub)
	g.DELETE("/:milestoneId", id("milestoneId"), stub)
	g.POST("/:milestoneId/submit", id("milestoneId"), stub)
	g.POST("/:milestoneId/approve", id("milestoneId"), stub)
	g.POST("/:milestoneId/disapprove", id("milestoneId"), stub)

	h := deps.Evidence
	g.POST("/:milestoneId/evidence", id("milestoneId"), deps.Intake.Multiple(evidence.UploadField, maxEvidenceFiles), h.Create)
	g.GET("/:milestoneId/evidence", id("milestoneId"), query[evidence.ListQuery](), h.List)
}

func registerEvidence(g *gin.RouterGroup, h *evidence.Handler) {
	g.GET("", ComingSoon("Evidence"))
	g.GET("/:evidenceId", id("evidenceId"), h.Get)
	g.GET("/:evidenceId/download", id("evidenceId"), h.Download)
	g.GET("/:evidenceId/thumbnail", id("evidenceId"), ComingSoon("Evidence"))
	g.DELETE("/:evidenceId", id("evidenceId"), h.Delete)
}

func registerSnapshots(g *gin.RouterGroup) {
	stub := ComingSoon("Snapshot")
	g.GET("", stub)
	g.GET("/:snapshotId", id("snapshotId"), stub)
	g.DELETE("/:snapshotId", id("snapshotId"), stub)
	g.POST("/:snapshotId/share", id("snapshotId"), stub)
}

func registerUsers(g *gin.RouterGroup) {
	stub := ComingSoon("User")
	g.GET("", stub)
	g.GET("/search", stub)
	g.GET("/me", stub)
	g.PUT("/me", stub)
	g.GET("/:userId", id("userId"), stub)
}

func registerReviews(g *gin.RouterGroup) {
	stub := ComingSoon("Review")
	g.GET("", stub)
	g.GET("/pending", stub)
	g.GET("/statistics", stub)
}

func registerAdmin(g *gin.RouterGroup) {
	stub := ComingSoon("Admin")
	g.GET("", stub)
	g.POST("/demo/reset", stub)
}

func registerPublic(g *gin.RouterGroup) {
	stub := ComingSoon("Public")
	g.GET("", stub)
	g.GET("/projects/:shareToken", stub)
	g.GET("/snapshots/:shareToken", stub)
}
