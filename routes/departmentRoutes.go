package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
)

// DepartmentRoutes sets up the department routes
func DepartmentRoutes(r *gin.Engine, dc *controllers.DepartmentController) {
	departments := r.Group("/api/departments")
	{
		departments.GET("", dc.List)
		departments.POST("",
			middlewares.Auth(),
			middlewares.RequireRoles(models.RoleAdmin),
			dc.Create)
	}
}
