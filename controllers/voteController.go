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
)

type VoteController struct {
	Store *config.Store
}

func NewVoteController(store *config.Store) *VoteController {
	return &VoteController{Store: store}
}

// Toggle removes the user's vote if present, otherwise casts one. The
// delete-then-insert order plus the unique (issueId, userId) index keeps
// concurrent double-toggles from producing two rows.
func (vc *VoteController) Toggle(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	var input struct {
		IssueID string `json:"issueId" binding:"required"`
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
	issues := vc.Store.Collection(config.ColIssues)
	if err := issues.FindOne(ctx, bson.M{"_id": issueID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Issue not found")
		} else {
			log.Println("Error retrieving issue:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	votes := vc.Store.Collection(config.ColVotes)
	pair := bson.M{"issueId": issueID, "userId": *userID}

	result, err := votes.DeleteOne(ctx, pair)
	if err != nil {
		log.Println("Error removing vote:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if result.DeletedCount > 0 {
		utils.OK(c, http.StatusOK, gin.H{
			"voted": false,
			"votes": voteCount(ctx, vc.Store, issueID),
		})
		return
	}

	vote := models.Vote{
		IssueID:   issueID,
		UserID:    *userID,
		CreatedAt: time.Now(),
	}
	if _, err := votes.InsertOne(ctx, vote); err != nil {
		// A concurrent toggle already inserted the pair
		if mongo.IsDuplicateKeyError(err) {
			utils.OK(c, http.StatusOK, gin.H{
				"voted": true,
				"votes": voteCount(ctx, vc.Store, issueID),
			})
			return
		}
		log.Println("Error casting vote:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{
		"voted": true,
		"votes": voteCount(ctx, vc.Store, issueID),
	})
}
