package controllers

import (
	"testing"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAnswerIndex(t *testing.T) {
	opts := []string{"Poor", "Fair", "Good", "Excellent"}

	assert.Equal(t, 0, answerIndex(0, opts))
	assert.Equal(t, 2, answerIndex(2, opts))
	assert.Equal(t, 2, answerIndex(float64(2), opts), "JSON numbers decode as float64")
	assert.Equal(t, 3, answerIndex(int64(3), opts))
	assert.Equal(t, 1, answerIndex("Fair", opts))

	assert.Equal(t, -1, answerIndex(-1, opts))
	assert.Equal(t, -1, answerIndex(4, opts))
	assert.Equal(t, -1, answerIndex(float64(2.7), opts), "fractional answers are dropped, not truncated")
	assert.Equal(t, -1, answerIndex(float64(-0.5), opts))
	assert.Equal(t, -1, answerIndex("Unknown", opts))
	assert.Equal(t, -1, answerIndex("good", opts), "string match is case sensitive")
	assert.Equal(t, -1, answerIndex(nil, opts))
	assert.Equal(t, -1, answerIndex(true, opts))
	assert.Equal(t, -1, answerIndex(0, nil))
}

func TestTabulate(t *testing.T) {
	questionID := primitive.NewObjectID()
	question := models.SurveyQuestion{
		ID:      questionID,
		Text:    "How satisfied are you with road maintenance?",
		Options: []string{"Poor", "Fair", "Good", "Excellent"},
	}

	responses := []models.SurveyResponse{
		{QuestionID: questionID, Answer: float64(2)},
		{QuestionID: questionID, Answer: "Good"},
		{QuestionID: questionID, Answer: "Unknown"},
		{QuestionID: questionID, Answer: float64(0.5)},
		{QuestionID: primitive.NewObjectID(), Answer: float64(0)}, // different question
	}

	results := tabulate([]models.SurveyQuestion{question}, responses)
	require.Len(t, results, 1)

	result, ok := results[questionID.Hex()]
	require.True(t, ok)
	assert.Equal(t, question.Text, result.Text)
	assert.Equal(t, 4, result.Total, "unmatched answers still count toward the total")

	require.Len(t, result.Options, 4)
	assert.Equal(t, optionCount{Option: "Poor", Count: 0}, result.Options[0])
	assert.Equal(t, optionCount{Option: "Fair", Count: 0}, result.Options[1])
	assert.Equal(t, optionCount{Option: "Good", Count: 2}, result.Options[2])
	assert.Equal(t, optionCount{Option: "Excellent", Count: 0}, result.Options[3])
}

func TestTabulateNoResponses(t *testing.T) {
	question := models.SurveyQuestion{
		ID:      primitive.NewObjectID(),
		Text:    "Any feedback?",
		Options: []string{"Yes", "No"},
	}

	results := tabulate([]models.SurveyQuestion{question}, nil)
	result := results[question.ID.Hex()]
	assert.Equal(t, 0, result.Total)
	require.Len(t, result.Options, 2)
	assert.Equal(t, 0, result.Options[0].Count)
	assert.Equal(t, 0, result.Options[1].Count)
}
