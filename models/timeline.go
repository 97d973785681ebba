package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TimelineEntry is an append-only audit record of an issue status change.
// Entries are never mutated or deleted: exactly one is written at issue
// creation (Submitted) and one more per update.
type TimelineEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID     primitive.ObjectID `bson:"issueId" json:"issueId"`
	Status      IssueStatus        `bson:"status" json:"status"`
	Note        *string            `bson:"note,omitempty" json:"note,omitempty"`
	UpdatedByID primitive.ObjectID `bson:"updatedById" json:"updatedById"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureTimelineIndex creates the per-issue lookup index
func EnsureTimelineIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}
