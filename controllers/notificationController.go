package controllers

import (
	"log"
	"net/http"
	"strconv"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationController struct {
	Store *config.Store
}

func NewNotificationController(store *config.Store) *NotificationController {
	return &NotificationController{Store: store}
}

// List returns the caller's notifications, newest first
func (nc *NotificationController) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"userId": *userID}
	if c.Query("unreadOnly") == "true" {
		filter["read"] = false
	}

	ctx := c.Request.Context()
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := nc.Store.Collection(config.ColNotifications).Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error retrieving notifications:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		log.Println("Error decoding notifications:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, notifications)
}

// MarkRead marks one of the caller's notifications as read. Ownership is
// part of the filter, so another user's notification reads as absent.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Not found")
		return
	}

	ctx := c.Request.Context()
	result, err := nc.Store.Collection(config.ColNotifications).UpdateOne(ctx,
		bson.M{"_id": notificationID, "userId": *userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		log.Println("Error marking notification read:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(c, http.StatusNotFound, "Not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
