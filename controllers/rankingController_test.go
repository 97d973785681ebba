package controllers

import (
	"testing"
	"time"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func trendingFixture(votes int64, createdAt time.Time) IssueDTO {
	return IssueDTO{
		Issue: models.Issue{ID: primitive.NewObjectID(), CreatedAt: createdAt},
		Votes: votes,
	}
}

func TestRankTrendingOrdersByVotesThenRecency(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	old := trendingFixture(5, base)
	popular := trendingFixture(12, base.Add(-48*time.Hour))
	fresh := trendingFixture(5, base.Add(2*time.Hour))
	quiet := trendingFixture(0, base.Add(24*time.Hour))

	dtos := []IssueDTO{old, quiet, popular, fresh}
	rankTrending(dtos)

	require.Len(t, dtos, 4)
	assert.Equal(t, popular.ID, dtos[0].ID, "highest votes first regardless of age")
	assert.Equal(t, fresh.ID, dtos[1].ID, "vote tie broken by recency")
	assert.Equal(t, old.ID, dtos[2].ID)
	assert.Equal(t, quiet.ID, dtos[3].ID)
}

func TestRankTrendingEmpty(t *testing.T) {
	assert.NotPanics(t, func() { rankTrending(nil) })
	assert.NotPanics(t, func() { rankTrending([]IssueDTO{}) })
}

func TestBoundingBox(t *testing.T) {
	minLat, maxLat, minLng, maxLng := boundingBox(28.5355, 77.3910, 5)

	assert.InDelta(t, 28.5355-5.0/111, minLat, 1e-9)
	assert.InDelta(t, 28.5355+5.0/111, maxLat, 1e-9)

	// longitude delta widens with latitude
	assert.InDelta(t, 0.051276, maxLng-77.3910, 1e-4)
	assert.InDelta(t, maxLng-77.3910, 77.3910-minLng, 1e-9)
	assert.Greater(t, maxLng-77.3910, maxLat-28.5355)
}

func TestBoundingBoxAtEquator(t *testing.T) {
	minLat, maxLat, minLng, maxLng := boundingBox(0, 0, 111)

	assert.InDelta(t, -1, minLat, 1e-9)
	assert.InDelta(t, 1, maxLat, 1e-9)
	assert.InDelta(t, -1, minLng, 1e-9)
	assert.InDelta(t, 1, maxLng, 1e-9)
}
