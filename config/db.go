package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"civicpulse-be/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	ColUsers           = "users"
	ColIssues          = "issues"
	ColIssueImages     = "issue_images"
	ColIssueTimeline   = "issue_timeline"
	ColVotes           = "votes"
	ColComments        = "comments"
	ColNotifications   = "notifications"
	ColSurveys         = "surveys"
	ColSurveyQuestions = "survey_questions"
	ColSurveyResponses = "survey_responses"
	ColDepartments     = "departments"
	ColSLARecords      = "sla_records"
)

// Store is the explicitly constructed persistence handle. It is created in
// main and injected into controllers; there is no package-level client.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the MongoDB connection described by MONGODB_URI and
// MONGODB_DB and verifies it with a ping.
func Connect(ctx context.Context) (*Store, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "civicpulse"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return &Store{Client: client, DB: client.Database(dbName)}, nil
}

// Close disconnects the underlying client
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}

// Collection returns a collection handle by name
func (s *Store) Collection(name string) *mongo.Collection {
	return s.DB.Collection(name)
}

// EnsureIndexes creates every index the engines rely on. The unique indexes
// on votes, survey responses, emails and department slugs carry the
// concurrency guarantees; everything else is for query shape.
func (s *Store) EnsureIndexes() error {
	if err := models.EnsureUserIndexes(s.Collection(ColUsers)); err != nil {
		return err
	}
	if err := models.EnsureIssueIndexes(s.Collection(ColIssues)); err != nil {
		return err
	}
	if err := models.EnsureImageIndex(s.Collection(ColIssueImages)); err != nil {
		return err
	}
	if err := models.EnsureTimelineIndex(s.Collection(ColIssueTimeline)); err != nil {
		return err
	}
	if err := models.EnsureVoteIndex(s.Collection(ColVotes)); err != nil {
		return err
	}
	if err := models.EnsureCommentIndex(s.Collection(ColComments)); err != nil {
		return err
	}
	if err := models.EnsureNotificationIndex(s.Collection(ColNotifications)); err != nil {
		return err
	}
	if err := models.EnsureSurveyIndexes(s.Collection(ColSurveyQuestions), s.Collection(ColSurveyResponses)); err != nil {
		return err
	}
	if err := models.EnsureDepartmentIndex(s.Collection(ColDepartments)); err != nil {
		return err
	}
	return models.EnsureSLAIndex(s.Collection(ColSLARecords))
}
