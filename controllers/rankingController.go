package controllers

import (
	"context"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RankingController struct {
	Store *config.Store
}

func NewRankingController(store *config.Store) *RankingController {
	return &RankingController{Store: store}
}

// rankTrending orders issues by vote count descending, ties broken by
// recency. Sorting happens in the app over a bounded candidate set, not in
// the database.
func rankTrending(dtos []IssueDTO) {
	sort.SliceStable(dtos, func(i, j int) bool {
		if dtos[i].Votes != dtos[j].Votes {
			return dtos[i].Votes > dtos[j].Votes
		}
		return dtos[i].CreatedAt.After(dtos[j].CreatedAt)
	})
}

// boundingBox computes the rectangle approximation of a radius around a
// point: dLat = r/111, dLng = r/(111*cos(lat)). Corners beyond the radius
// are accepted imprecision.
func boundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / 111
	dLng := radiusKm / (111 * math.Cos(lat*math.Pi/180))
	return lat - dLat, lat + dLat, lng - dLng, lng + dLng
}

// Trending returns the top open issues by votes. The candidate set is the
// 3*limit most recent open issues, which bounds the ranking work while
// leaving the vote sort enough recent candidates.
func (rc *RankingController) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	ctx := c.Request.Context()
	filter := bson.M{"status": bson.M{"$nin": []models.IssueStatus{models.Resolved, models.Verified}}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit * 3))

	cursor, err := rc.Store.Collection(config.ColIssues).Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error retrieving trending candidates:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var candidates []models.Issue
	if err := cursor.All(ctx, &candidates); err != nil {
		log.Println("Error decoding trending candidates:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	viewer := currentUserID(c)
	dtos := make([]IssueDTO, 0, len(candidates))
	for _, issue := range candidates {
		dtos = append(dtos, issueDTO(ctx, rc.Store, issue, viewer, false))
	}

	rankTrending(dtos)
	if len(dtos) > limit {
		dtos = dtos[:limit]
	}

	utils.OK(c, http.StatusOK, dtos)
}

// Nearby returns issues inside the bounding box around a point, newest first
func (rc *RankingController) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	fields := map[string][]string{}
	if latErr != nil || lat < -90 || lat > 90 {
		fields["lat"] = []string{"must be a number between -90 and 90"}
	}
	if lngErr != nil || lng < -180 || lng > 180 {
		fields["lng"] = []string{"must be a number between -180 and 180"}
	}
	if len(fields) > 0 {
		utils.FailFields(c, http.StatusBadRequest, "Invalid query", fields)
		return
	}

	radiusKm, err := strconv.ParseFloat(c.DefaultQuery("radiusKm", "5"), 64)
	if err != nil || radiusKm < 0.1 || radiusKm > 100 {
		utils.FailFields(c, http.StatusBadRequest, "Invalid query", map[string][]string{
			"radiusKm": {"must be a number between 0.1 and 100"},
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	minLat, maxLat, minLng, maxLng := boundingBox(lat, lng, radiusKm)

	ctx := c.Request.Context()
	filter := bson.M{
		"latitude":  bson.M{"$gte": minLat, "$lte": maxLat},
		"longitude": bson.M{"$gte": minLng, "$lte": maxLng},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := rc.Store.Collection(config.ColIssues).Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error retrieving nearby issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var rows []models.Issue
	if err := cursor.All(ctx, &rows); err != nil {
		log.Println("Error decoding nearby issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	viewer := currentUserID(c)
	dtos := make([]IssueDTO, 0, len(rows))
	for _, issue := range rows {
		dtos = append(dtos, issueDTO(ctx, rc.Store, issue, viewer, false))
	}

	utils.OK(c, http.StatusOK, dtos)
}

// Analytics returns independent rollups: total, by status, by category, by
// department (with names), and the 30-day creation count.
func (rc *RankingController) Analytics(c *gin.Context) {
	ctx := c.Request.Context()
	issues := rc.Store.Collection(config.ColIssues)

	totalIssues, err := issues.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("Error counting issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)
	last30Days, err := issues.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": thirtyDaysAgo}})
	if err != nil {
		log.Println("Error counting recent issues:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	byStatus, err := rc.groupCount(ctx, "$status")
	if err != nil {
		log.Println("Error grouping by status:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	byCategory, err := rc.groupCount(ctx, "$category")
	if err != nil {
		log.Println("Error grouping by category:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	byDepartment, err := rc.departmentCounts(ctx)
	if err != nil {
		log.Println("Error grouping by department:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{
		"totalIssues":  totalIssues,
		"last30Days":   last30Days,
		"byStatus":     byStatus,
		"byCategory":   byCategory,
		"byDepartment": byDepartment,
	})
}

// groupCount runs a $group aggregation over issues keyed on a field path
func (rc *RankingController) groupCount(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}

	cursor, err := rc.Store.Collection(config.ColIssues).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

// departmentCount is one row of the per-department rollup
type departmentCount struct {
	DepartmentID primitive.ObjectID `json:"departmentId"`
	Department   *DepartmentRef     `json:"department"`
	Count        int64              `json:"count"`
}

func (rc *RankingController) departmentCounts(ctx context.Context) ([]departmentCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"departmentId": bson.M{"$ne": nil}}},
		{"$group": bson.M{"_id": "$departmentId", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := rc.Store.Collection(config.ColIssues).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]departmentCount, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		out = append(out, departmentCount{
			DepartmentID: row.ID,
			Department:   departmentRef(ctx, rc.Store, &id),
			Count:        row.Count,
		})
	}
	return out, nil
}
