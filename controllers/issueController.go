package controllers

import (
	"log"
	"net/http"
	"strconv"
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

type IssueController struct {
	Store *config.Store
}

func NewIssueController(store *config.Store) *IssueController {
	return &IssueController{Store: store}
}

// Create reports a new issue. The caller role is gated to RESIDENT/ADMIN in
// the route setup. Persists the issue, its images (order = array index),
// the initial Submitted timeline entry and the SLA record.
func (ic *IssueController) Create(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,min=5,max=200"`
		Description string   `json:"description" binding:"required,min=20"`
		Category    string   `json:"category" binding:"required"`
		Severity    string   `json:"severity" binding:"required"`
		Latitude    *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
		Longitude   *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
		Address     *string  `json:"address,omitempty"`
		City        *string  `json:"city,omitempty"`
		ImageURLs   []string `json:"imageUrls" binding:"omitempty,dive,url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}
	if !models.ValidCategory(input.Category) {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
			"category": {"is invalid"},
		})
		return
	}
	if !models.ValidSeverity(input.Severity) {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
			"severity": {"is invalid"},
		})
		return
	}

	now := time.Now()
	issue := models.Issue{
		ID:            primitive.NewObjectID(),
		Title:         input.Title,
		Description:   input.Description,
		Category:      models.IssueCategory(input.Category),
		Severity:      models.IssueSeverity(input.Severity),
		Status:        models.Submitted,
		Latitude:      *input.Latitude,
		Longitude:     *input.Longitude,
		Address:       input.Address,
		City:          input.City,
		PriorityScore: models.PriorityScore(models.IssueSeverity(input.Severity)),
		CreatedByID:   *actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx := c.Request.Context()
	if _, err := ic.Store.Collection(config.ColIssues).InsertOne(ctx, issue); err != nil {
		log.Println("Error inserting issue:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(input.ImageURLs) > 0 {
		images := make([]interface{}, 0, len(input.ImageURLs))
		for order, url := range input.ImageURLs {
			images = append(images, models.IssueImage{
				IssueID:   issue.ID,
				URL:       url,
				Order:     order,
				CreatedAt: now,
			})
		}
		if _, err := ic.Store.Collection(config.ColIssueImages).InsertMany(ctx, images); err != nil {
			log.Println("Error inserting issue images:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	entry := models.TimelineEntry{
		IssueID:     issue.ID,
		Status:      models.Submitted,
		UpdatedByID: *actorID,
		CreatedAt:   now,
	}
	if _, err := ic.Store.Collection(config.ColIssueTimeline).InsertOne(ctx, entry); err != nil {
		log.Println("Error inserting timeline entry:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	sla := models.SLARecord{
		IssueID:     issue.ID,
		TargetHours: models.DefaultSLATargetHours,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ic.Store.Collection(config.ColSLARecords).InsertOne(ctx, sla); err != nil {
		log.Println("Error inserting SLA record:", err)
	}

	utils.OK(c, http.StatusCreated, issueDTO(ctx, ic.Store, issue, actorID, true))
}

// Update applies an official's triage change. The issue update and the
// timeline append commit as a single transaction; readers never observe one
// without the other.
func (ic *IssueController) Update(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Issue not found")
		return
	}

	var input struct {
		Status       *string `json:"status,omitempty"`
		AssignedToID *string `json:"assignedToId,omitempty"`
		DepartmentID *string `json:"departmentId,omitempty"`
		Note         *string `json:"note,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}
	if input.Status != nil && !models.ValidStatus(*input.Status) {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
			"status": {"is invalid"},
		})
		return
	}

	ctx := c.Request.Context()
	issues := ic.Store.Collection(config.ColIssues)

	var issue models.Issue
	if err := issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Issue not found")
		} else {
			log.Println("Error retrieving issue:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	// Effective status: supplied or unchanged. Any transition is allowed,
	// including backward; the pipeline order is display-only.
	effectiveStatus := issue.Status
	if input.Status != nil {
		effectiveStatus = models.IssueStatus(*input.Status)
	}

	now := time.Now()
	update := bson.M{"updatedAt": now}
	if input.Status != nil {
		update["status"] = effectiveStatus
	}
	if input.AssignedToID != nil {
		assignedID, err := primitive.ObjectIDFromHex(*input.AssignedToID)
		if err != nil {
			utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
				"assignedToId": {"is invalid"},
			})
			return
		}
		update["assignedToId"] = assignedID
	}
	if input.DepartmentID != nil {
		deptID, err := primitive.ObjectIDFromHex(*input.DepartmentID)
		if err != nil {
			utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
				"departmentId": {"is invalid"},
			})
			return
		}
		update["departmentId"] = deptID
	}
	// Set on every update whose effective status is Resolved/Verified, not
	// only on the transition edge.
	if effectiveStatus.Closed() {
		update["resolvedAt"] = now
	}

	entry := models.TimelineEntry{
		IssueID:     issueID,
		Status:      effectiveStatus,
		Note:        input.Note,
		UpdatedByID: *actorID,
		CreatedAt:   now,
	}

	session, err := ic.Store.Client.StartSession()
	if err != nil {
		log.Println("Error starting session:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := issues.UpdateOne(sc, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
			return nil, err
		}
		if _, err := ic.Store.Collection(config.ColIssueTimeline).InsertOne(sc, entry); err != nil {
			return nil, err
		}
		if stamp := slaStamp(effectiveStatus, now); stamp != nil {
			if _, err := ic.Store.Collection(config.ColSLARecords).UpdateOne(sc,
				bson.M{"issueId": issueID},
				bson.M{"$set": stamp}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		log.Println("Error updating issue:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if input.Status != nil && effectiveStatus != issue.Status && issue.CreatedByID != *actorID {
		ic.notifyStatusChange(c, issue, effectiveStatus)
	}

	var updated models.Issue
	if err := issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&updated); err != nil {
		log.Println("Error retrieving updated issue:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, issueDTO(ctx, ic.Store, updated, actorID, true))
}

// slaStamp maps a status to the SLA timestamp it sets, if any
func slaStamp(status models.IssueStatus, now time.Time) bson.M {
	switch status {
	case models.Acknowledged:
		return bson.M{"acknowledgedAt": now, "updatedAt": now}
	case models.Assigned:
		return bson.M{"assignedAt": now, "updatedAt": now}
	case models.Resolved, models.Verified:
		return bson.M{"resolvedAt": now, "updatedAt": now}
	}
	return nil
}

// notifyStatusChange writes a StatusUpdate notification to the issue
// creator. Best-effort: a failure here never fails the update.
func (ic *IssueController) notifyStatusChange(c *gin.Context, issue models.Issue, status models.IssueStatus) {
	body := "Your report '" + issue.Title + "' is now " + string(status) + "."
	link := "/dashboard/issues"
	notification := models.Notification{
		UserID:    issue.CreatedByID,
		Type:      models.NotifyStatusUpdate,
		Title:     "Issue status updated",
		Body:      &body,
		Link:      &link,
		CreatedAt: time.Now(),
	}
	if _, err := ic.Store.Collection(config.ColNotifications).InsertOne(c.Request.Context(), notification); err != nil {
		log.Println("Error inserting notification:", err)
	}
}

// Get returns one issue with counts, images, populated references, the
// viewer's vote state and the SLA record.
func (ic *IssueController) Get(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Issue not found")
		return
	}

	ctx := c.Request.Context()
	var issue models.Issue
	if err := ic.Store.Collection(config.ColIssues).FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Issue not found")
		} else {
			log.Println("Error retrieving issue:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	dto := issueDTO(ctx, ic.Store, issue, currentUserID(c), true)

	var sla models.SLARecord
	if err := ic.Store.Collection(config.ColSLARecords).FindOne(ctx, bson.M{"issueId": issueID}).Decode(&sla); err == nil {
		dto.SLA = &sla
	}

	utils.OK(c, http.StatusOK, dto)
}

// List returns a filtered, newest-first page of issues plus the total count
func (ic *IssueController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if deptID := c.Query("departmentId"); deptID != "" {
		objID, err := primitive.ObjectIDFromHex(deptID)
		if err == nil {
			filter["departmentId"] = objID
		}
	}
	viewer := currentUserID(c)
	if c.Query("createdBy") == "me" && viewer != nil {
		filter["createdById"] = *viewer
	}

	ctx := c.Request.Context()
	issues := ic.Store.Collection(config.ColIssues)

	total, err := issues.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("Error counting issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := issues.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error retrieving issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var rows []models.Issue
	if err := cursor.All(ctx, &rows); err != nil {
		log.Println("Error decoding issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	dtos := make([]IssueDTO, 0, len(rows))
	for _, issue := range rows {
		dtos = append(dtos, issueDTO(ctx, ic.Store, issue, viewer, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dtos,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Timeline returns the append-only status history of an issue, oldest first
func (ic *IssueController) Timeline(c *gin.Context) {
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
	cursor, err := ic.Store.Collection(config.ColIssueTimeline).Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		log.Println("Error retrieving timeline:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var entries []models.TimelineEntry
	if err := cursor.All(ctx, &entries); err != nil {
		log.Println("Error decoding timeline:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	type timelineDTO struct {
		models.TimelineEntry
		UpdatedBy UserRef `json:"updatedBy"`
	}

	dtos := make([]timelineDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, timelineDTO{
			TimelineEntry: entry,
			UpdatedBy:     userRef(ctx, ic.Store, entry.UpdatedByID),
		})
	}

	utils.OK(c, http.StatusOK, dtos)
}
