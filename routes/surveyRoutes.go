package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// SurveyRoutes sets up the survey routes
func SurveyRoutes(r *gin.Engine, sc *controllers.SurveyController) {
	surveys := r.Group("/api/surveys")
	{
		surveys.GET("", middlewares.OptionalAuth(), sc.List)
		surveys.POST("",
			middlewares.Auth(),
			middlewares.RequireRoles(models.RoleOfficial, models.RoleAdmin),
			sc.Create)
		surveys.GET("/:id", sc.Get)
		surveys.POST("/:id/respond", middlewares.Auth(), sc.Respond)
		surveys.GET("/:id/results", sc.Results)
	}
}
