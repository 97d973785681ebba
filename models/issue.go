package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueCategory enum
type IssueCategory string

const (
	Road        IssueCategory = "Road"
	Garbage     IssueCategory = "Garbage"
	Water       IssueCategory = "Water"
	Electricity IssueCategory = "Electricity"
	Sanitation  IssueCategory = "Sanitation"
	Streetlight IssueCategory = "Streetlight"
	Drainage    IssueCategory = "Drainage"
	Other       IssueCategory = "Other"
)

// IssueSeverity enum
type IssueSeverity string

const (
	Low      IssueSeverity = "Low"
	Medium   IssueSeverity = "Medium"
	High     IssueSeverity = "High"
	Critical IssueSeverity = "Critical"
)

// IssueStatus enum
type IssueStatus string

const (
	Submitted    IssueStatus = "Submitted"
	Acknowledged IssueStatus = "Acknowledged"
	Assigned     IssueStatus = "Assigned"
	InProgress   IssueStatus = "InProgress"
	Resolved     IssueStatus = "Resolved"
	Verified     IssueStatus = "Verified"
)

func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Road, Garbage, Water, Electricity, Sanitation, Streetlight, Drainage, Other:
		return true
	}
	return false
}

func ValidSeverity(s string) bool {
	switch IssueSeverity(s) {
	case Low, Medium, High, Critical:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case Submitted, Acknowledged, Assigned, InProgress, Resolved, Verified:
		return true
	}
	return false
}

// Closed reports whether the status is terminal. Closed issues are
// excluded from trending.
func (s IssueStatus) Closed() bool {
	return s == Resolved || s == Verified
}

// PriorityScore derives the fixed priority from severity. The score is
// computed once at creation and never recomputed on update.
func PriorityScore(severity IssueSeverity) int {
	switch severity {
	case Critical:
		return 10
	case High:
		return 7
	default:
		return 4
	}
}

// Issue represents a civic issue reported by a resident
type Issue struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	Category      IssueCategory       `bson:"category" json:"category"`
	Severity      IssueSeverity       `bson:"severity" json:"severity"`
	Status        IssueStatus         `bson:"status" json:"status"`
	Latitude      float64             `bson:"latitude" json:"latitude"`
	Longitude     float64             `bson:"longitude" json:"longitude"`
	Address       *string             `bson:"address,omitempty" json:"address,omitempty"`
	City          *string             `bson:"city,omitempty" json:"city,omitempty"`
	PriorityScore int                 `bson:"priorityScore" json:"priorityScore"`
	CreatedByID   primitive.ObjectID  `bson:"createdById" json:"createdById"`
	AssignedToID  *primitive.ObjectID `bson:"assignedToId,omitempty" json:"assignedToId,omitempty"`
	DepartmentID  *primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	ResolvedAt    *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IssueImage is an image attached to an issue; order is the caller-supplied
// position at creation time.
type IssueImage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issueId" json:"issueId"`
	URL       string             `bson:"url" json:"url"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureIssueIndexes creates the query indexes for the issues collection
func EnsureIssueIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "latitude", Value: 1}, {Key: "longitude", Value: 1}}},
		{Keys: bson.D{{Key: "departmentId", Value: 1}}},
		{Keys: bson.D{{Key: "createdById", Value: 1}}},
	})
	return err
}

// EnsureImageIndex creates the lookup index for issue images
func EnsureImageIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}, {Key: "order", Value: 1}},
	})
	return err
}
