package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultSLATargetHours is the acknowledgement/resolution target applied to
// new issues.
const DefaultSLATargetHours = 72

// SLARecord tracks service-level timestamps for one issue. It is created
// alongside the issue and stamped as the status moves; nothing in the core
// blocks on it.
type SLARecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID        primitive.ObjectID `bson:"issueId" json:"issueId"`
	TargetHours    int                `bson:"targetHours" json:"targetHours"`
	AcknowledgedAt *time.Time         `bson:"acknowledgedAt,omitempty" json:"acknowledgedAt,omitempty"`
	AssignedAt     *time.Time         `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	ResolvedAt     *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Breached       bool               `bson:"breached" json:"breached"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureSLAIndex creates the per-issue lookup index
func EnsureSLAIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}},
	})
	return err
}
