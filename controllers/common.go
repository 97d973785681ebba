package controllers

import (
	"context"

	"civicpulse-be/config"
	"civicpulse-be/middlewares"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRef is the populated creator/assignee/author reference
type UserRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// DepartmentRef is the populated department reference
type DepartmentRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Slug string             `json:"slug"`
}

// IssueDTO is the issue response shape shared by list, detail, trending and
// nearby endpoints.
type IssueDTO struct {
	models.Issue
	Votes      int64               `json:"votes"`
	Comments   int64               `json:"comments"`
	UserVoted  bool                `json:"userVoted"`
	CreatedBy  UserRef             `json:"createdBy"`
	AssignedTo *UserRef            `json:"assignedTo,omitempty"`
	Department *DepartmentRef      `json:"department,omitempty"`
	Images     []models.IssueImage `json:"images,omitempty"`
	SLA        *models.SLARecord   `json:"sla,omitempty"`
}

// currentUserID returns the authenticated user's id from the request
// context, or nil when the request is anonymous.
func currentUserID(c *gin.Context) *primitive.ObjectID {
	userIDVal, exists := c.Get(middlewares.CtxUserID)
	if !exists {
		return nil
	}
	userIDStr, ok := userIDVal.(string)
	if !ok {
		return nil
	}
	objID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return nil
	}
	return &objID
}

func currentRole(c *gin.Context) models.UserRole {
	roleVal, _ := c.Get(middlewares.CtxUserRole)
	role, _ := roleVal.(string)
	return models.UserRole(role)
}

// lookups shared by controllers; each takes the injected store

func userRef(ctx context.Context, store *config.Store, id primitive.ObjectID) UserRef {
	ref := UserRef{ID: id}
	var user models.User
	if err := store.Collection(config.ColUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user); err == nil {
		ref.Name = user.Name
	}
	return ref
}

func departmentRef(ctx context.Context, store *config.Store, id *primitive.ObjectID) *DepartmentRef {
	if id == nil {
		return nil
	}
	var dept models.Department
	if err := store.Collection(config.ColDepartments).FindOne(ctx, bson.M{"_id": *id}).Decode(&dept); err != nil {
		return &DepartmentRef{ID: *id}
	}
	return &DepartmentRef{ID: dept.ID, Name: dept.Name, Slug: dept.Slug}
}

func voteCount(ctx context.Context, store *config.Store, issueID primitive.ObjectID) int64 {
	count, err := store.Collection(config.ColVotes).CountDocuments(ctx, bson.M{"issueId": issueID})
	if err != nil {
		return 0
	}
	return count
}

func commentCount(ctx context.Context, store *config.Store, issueID primitive.ObjectID) int64 {
	count, err := store.Collection(config.ColComments).CountDocuments(ctx, bson.M{"issueId": issueID})
	if err != nil {
		return 0
	}
	return count
}

func userVoted(ctx context.Context, store *config.Store, issueID primitive.ObjectID, userID *primitive.ObjectID) bool {
	if userID == nil {
		return false
	}
	count, err := store.Collection(config.ColVotes).CountDocuments(ctx, bson.M{
		"issueId": issueID,
		"userId":  *userID,
	})
	return err == nil && count > 0
}

func issueImages(ctx context.Context, store *config.Store, issueID primitive.ObjectID) []models.IssueImage {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := store.Collection(config.ColIssueImages).Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var images []models.IssueImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil
	}
	return images
}

// issueDTO assembles the shared response shape for one issue
func issueDTO(ctx context.Context, store *config.Store, issue models.Issue, viewer *primitive.ObjectID, withImages bool) IssueDTO {
	dto := IssueDTO{
		Issue:     issue,
		Votes:     voteCount(ctx, store, issue.ID),
		Comments:  commentCount(ctx, store, issue.ID),
		UserVoted: userVoted(ctx, store, issue.ID, viewer),
		CreatedBy: userRef(ctx, store, issue.CreatedByID),
	}
	if issue.AssignedToID != nil {
		ref := userRef(ctx, store, *issue.AssignedToID)
		dto.AssignedTo = &ref
	}
	dto.Department = departmentRef(ctx, store, issue.DepartmentID)
	if withImages {
		dto.Images = issueImages(ctx, store, issue.ID)
	}
	return dto
}
