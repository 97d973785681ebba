package controllers

import (
	"log"
	"net/http"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentController struct {
	Store *config.Store
}

func NewCommentController(store *config.Store) *CommentController {
	return &CommentController{Store: store}
}

// threadedComment is a top-level comment with its flat reply list
type threadedComment struct {
	models.Comment
	Author  UserRef           `json:"author"`
	Replies []threadedComment `json:"replies"`
}

// assembleThreads partitions comments (already sorted by creation ascending)
// into top-level entries and replies. Threading is one level deep: a reply
// to a reply lands in the flat reply list of the nearest top-level ancestor.
func assembleThreads(comments []threadedComment) []threadedComment {
	topLevelFor := make(map[primitive.ObjectID]primitive.ObjectID, len(comments))
	byID := make(map[primitive.ObjectID]*threadedComment, len(comments))

	topLevel := make([]threadedComment, 0, len(comments))
	for _, comment := range comments {
		if comment.ParentID == nil {
			comment.Replies = []threadedComment{}
			topLevel = append(topLevel, comment)
			topLevelFor[comment.ID] = comment.ID
			byID[comment.ID] = &topLevel[len(topLevel)-1]
		}
	}

	for _, comment := range comments {
		if comment.ParentID == nil {
			continue
		}
		// Walk up to the top-level ancestor; the parent may itself be a reply.
		rootID, ok := topLevelFor[*comment.ParentID]
		if !ok {
			continue
		}
		topLevelFor[comment.ID] = rootID
		root := byID[rootID]
		root.Replies = append(root.Replies, comment)
	}

	return topLevel
}

// List returns the issue's comments with one-level reply threading
func (cc *CommentController) List(c *gin.Context) {
	issueIDParam := c.Query("issueId")
	if issueIDParam == "" {
		utils.Fail(c, http.StatusBadRequest, "issueId required")
		return
	}
	issueID, err := primitive.ObjectIDFromHex(issueIDParam)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "issueId required")
		return
	}

	ctx := c.Request.Context()
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := cc.Store.Collection(config.ColComments).Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		log.Println("Error retrieving comments:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var rows []models.Comment
	if err := cursor.All(ctx, &rows); err != nil {
		log.Println("Error decoding comments:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	comments := make([]threadedComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, threadedComment{
			Comment: row,
			Author:  userRef(ctx, cc.Store, row.AuthorID),
		})
	}

	utils.OK(c, http.StatusOK, assembleThreads(comments))
}

// Create adds a comment, optionally as a reply
func (cc *CommentController) Create(c *gin.Context) {
	authorID := currentUserID(c)
	if authorID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	var input struct {
		IssueID  string  `json:"issueId" binding:"required"`
		Body     string  `json:"body" binding:"required,min=1,max=2000"`
		ParentID *string `json:"parentId,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	issueID, err := primitive.ObjectIDFromHex(input.IssueID)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Issue not found")
		return
	}

	ctx := c.Request.Context()
	if err := cc.Store.Collection(config.ColIssues).FindOne(ctx, bson.M{"_id": issueID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Issue not found")
		} else {
			log.Println("Error retrieving issue:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		AuthorID:  *authorID,
		Body:      input.Body,
		CreatedAt: time.Now(),
	}
	if input.ParentID != nil && *input.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(*input.ParentID)
		if err != nil {
			utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
				"parentId": {"is invalid"},
			})
			return
		}
		comment.ParentID = &parentID
	}

	if _, err := cc.Store.Collection(config.ColComments).InsertOne(ctx, comment); err != nil {
		log.Println("Error inserting comment:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := threadedComment{
		Comment: comment,
		Author:  userRef(ctx, cc.Store, comment.AuthorID),
		Replies: []threadedComment{},
	}
	utils.OK(c, http.StatusCreated, out)
}
