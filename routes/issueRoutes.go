package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue, timeline and analytics routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, rc *controllers.RankingController, rateLimiter gin.HandlerFunc) {
	issues := r.Group("/api/issues")
	{
		issues.GET("", middlewares.OptionalAuth(), ic.List)
		issues.POST("",
			middlewares.Auth(),
			middlewares.RequireRoles(models.RoleResident, models.RoleAdmin),
			rateLimiter,
			ic.Create)
		issues.GET("/trending", middlewares.OptionalAuth(), rc.Trending)
		issues.GET("/nearby", middlewares.OptionalAuth(), rc.Nearby)
		issues.GET("/:id", middlewares.OptionalAuth(), ic.Get)
		issues.PATCH("/:id",
			middlewares.Auth(),
			middlewares.RequireRoles(models.RoleOfficial, models.RoleAdmin),
			ic.Update)
	}

	r.GET("/api/timeline", ic.Timeline)
	r.GET("/api/analytics", rc.Analytics)
}
