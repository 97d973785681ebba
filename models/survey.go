package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Survey struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  *string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedByID  primitive.ObjectID  `bson:"createdById" json:"createdById"`
	DepartmentID *primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	StartsAt     time.Time           `bson:"startsAt" json:"startsAt"`
	EndsAt       time.Time           `bson:"endsAt" json:"endsAt"`
	Published    bool                `bson:"published" json:"published"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type SurveyQuestion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	Text     string             `bson:"text" json:"text"`
	Order    int                `bson:"order" json:"order"`
	Options  []string           `bson:"options" json:"options"`
}

// SurveyResponse is one user's answer to one question. At most one row per
// (surveyId, questionId, userId); resubmission overwrites. Answer is either
// a zero-based option index (number) or an option string, stored raw;
// interpretation happens at tabulation time.
type SurveyResponse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID   primitive.ObjectID `bson:"surveyId" json:"surveyId"`
	QuestionID primitive.ObjectID `bson:"questionId" json:"questionId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Answer     interface{}        `bson:"answer" json:"answer"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureSurveyIndexes creates the question lookup index and the unique
// response triple. The triple index makes the respond upsert race-free.
func EnsureSurveyIndexes(questions, responses *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := questions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "order", Value: 1}},
	}); err != nil {
		return err
	}

	_, err := responses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "surveyId", Value: 1},
			{Key: "questionId", Value: 1},
			{Key: "userId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
