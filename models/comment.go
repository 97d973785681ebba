package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Comment is a discussion entry on an issue. ParentID, when set, references
// another comment on the same issue; threading is one level deep.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID  `bson:"issueId" json:"issueId"`
	AuthorID  primitive.ObjectID  `bson:"authorId" json:"authorId"`
	Body      string              `bson:"body" json:"body"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// EnsureCommentIndex creates the per-issue lookup index
func EnsureCommentIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}
