package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// CommunityRoutes sets up votes, comments and notifications
func CommunityRoutes(r *gin.Engine, vc *controllers.VoteController, cc *controllers.CommentController, nc *controllers.NotificationController) {
	r.POST("/api/votes", middlewares.Auth(), vc.Toggle)

	comments := r.Group("/api/comments")
	{
		comments.GET("", cc.List)
		comments.POST("", middlewares.Auth(), cc.Create)
	}

	notifications := r.Group("/api/notifications", middlewares.Auth())
	{
		notifications.GET("", nc.List)
		notifications.PATCH("/:id/read", nc.MarkRead)
	}
}
