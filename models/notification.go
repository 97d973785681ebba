package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationType enum
type NotificationType string

const (
	NotifyStatusUpdate NotificationType = "StatusUpdate"
	NotifyComment      NotificationType = "Comment"
	NotifySurvey       NotificationType = "Survey"
	NotifySLAAlert     NotificationType = "SLAAlert"
	NotifyAssignment   NotificationType = "Assignment"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Body      *string            `bson:"body,omitempty" json:"body,omitempty"`
	Link      *string            `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureNotificationIndex creates the per-user lookup index
func EnsureNotificationIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
