package controllers

import (
	"context"
	"log"
	"math"
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

type SurveyController struct {
	Store *config.Store
}

func NewSurveyController(store *config.Store) *SurveyController {
	return &SurveyController{Store: store}
}

// surveyDTO is a survey with its ordered questions and response count
type surveyDTO struct {
	models.Survey
	Questions []models.SurveyQuestion `json:"questions"`
	Responses int64                   `json:"responses"`
}

// optionCount is one option bucket in a question's tally
type optionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// questionResult tallies one question. Total counts every response received
// for the question, including answers that matched no option bucket.
type questionResult struct {
	Text    string        `json:"text"`
	Options []optionCount `json:"options"`
	Total   int           `json:"total"`
}

// answerIndex resolves a stored answer to a zero-based option index. A whole
// numeric answer is the index itself; a string answer is matched by exact
// equality. Returns -1 for fractional, out-of-range or unmatched answers,
// which are dropped from the buckets but still counted in the question total.
func answerIndex(answer interface{}, opts []string) int {
	idx := -1
	switch v := answer.(type) {
	case int:
		idx = v
	case int32:
		idx = int(v)
	case int64:
		idx = int(v)
	case float64:
		if v != math.Trunc(v) {
			return -1
		}
		idx = int(v)
	case string:
		for i, opt := range opts {
			if opt == v {
				return i
			}
		}
		return -1
	default:
		return -1
	}
	if idx < 0 || idx >= len(opts) {
		return -1
	}
	return idx
}

// tabulate builds per-question results from the raw response rows
func tabulate(questions []models.SurveyQuestion, responses []models.SurveyResponse) map[string]questionResult {
	out := make(map[string]questionResult, len(questions))
	for _, q := range questions {
		counts := make([]optionCount, len(q.Options))
		for i, opt := range q.Options {
			counts[i] = optionCount{Option: opt}
		}

		total := 0
		for _, r := range responses {
			if r.QuestionID != q.ID {
				continue
			}
			total++
			if idx := answerIndex(r.Answer, q.Options); idx >= 0 {
				counts[idx].Count++
			}
		}

		out[q.ID.Hex()] = questionResult{Text: q.Text, Options: counts, Total: total}
	}
	return out
}

func (sc *SurveyController) surveyQuestions(ctx context.Context, surveyID primitive.ObjectID) ([]models.SurveyQuestion, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := sc.Store.Collection(config.ColSurveyQuestions).Find(ctx, bson.M{"surveyId": surveyID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.SurveyQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// List returns surveys. Officials and admins see everything including
// drafts; everyone else sees published surveys that have not ended.
func (sc *SurveyController) List(c *gin.Context) {
	role := currentRole(c)

	filter := bson.M{}
	if role != models.RoleOfficial && role != models.RoleAdmin {
		filter["published"] = true
		filter["endsAt"] = bson.M{"$gte": time.Now()}
	}

	ctx := c.Request.Context()
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := sc.Store.Collection(config.ColSurveys).Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("Error retrieving surveys:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var surveys []models.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		log.Println("Error decoding surveys:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	dtos := make([]surveyDTO, 0, len(surveys))
	for _, survey := range surveys {
		questions, err := sc.surveyQuestions(ctx, survey.ID)
		if err != nil {
			log.Println("Error retrieving survey questions:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		responseCount, _ := sc.Store.Collection(config.ColSurveyResponses).
			CountDocuments(ctx, bson.M{"surveyId": survey.ID})
		dtos = append(dtos, surveyDTO{Survey: survey, Questions: questions, Responses: responseCount})
	}

	utils.OK(c, http.StatusOK, dtos)
}

// Create publishes a new survey with its questions. Role gated to
// OFFICIAL/ADMIN in the route setup.
func (sc *SurveyController) Create(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	var input struct {
		Title        string     `json:"title" binding:"required,min=1,max=200"`
		Description  *string    `json:"description,omitempty"`
		DepartmentID *string    `json:"departmentId,omitempty"`
		StartsAt     time.Time  `json:"startsAt" binding:"required"`
		EndsAt       time.Time  `json:"endsAt" binding:"required"`
		Published    bool       `json:"published"`
		Questions    []struct {
			Text    string   `json:"text" binding:"required"`
			Order   int      `json:"order" binding:"gte=0"`
			Options []string `json:"options"`
		} `json:"questions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	now := time.Now()
	survey := models.Survey{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		CreatedByID: *actorID,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Published:   input.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.DepartmentID != nil && *input.DepartmentID != "" {
		deptID, err := primitive.ObjectIDFromHex(*input.DepartmentID)
		if err != nil {
			utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
				"departmentId": {"is invalid"},
			})
			return
		}
		survey.DepartmentID = &deptID
	}

	ctx := c.Request.Context()
	if _, err := sc.Store.Collection(config.ColSurveys).InsertOne(ctx, survey); err != nil {
		log.Println("Error inserting survey:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(input.Questions) > 0 {
		docs := make([]interface{}, 0, len(input.Questions))
		for _, q := range input.Questions {
			docs = append(docs, models.SurveyQuestion{
				SurveyID: survey.ID,
				Text:     q.Text,
				Order:    q.Order,
				Options:  q.Options,
			})
		}
		if _, err := sc.Store.Collection(config.ColSurveyQuestions).InsertMany(ctx, docs); err != nil {
			log.Println("Error inserting survey questions:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	questions, err := sc.surveyQuestions(ctx, survey.ID)
	if err != nil {
		log.Println("Error retrieving survey questions:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusCreated, surveyDTO{Survey: survey, Questions: questions})
}

// Get returns one survey if it is published and still open
func (sc *SurveyController) Get(c *gin.Context) {
	surveyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Survey not found")
		return
	}

	ctx := c.Request.Context()
	var survey models.Survey
	if err := sc.Store.Collection(config.ColSurveys).FindOne(ctx, bson.M{"_id": surveyID}).Decode(&survey); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Survey not found")
		} else {
			log.Println("Error retrieving survey:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	if !survey.Published || survey.EndsAt.Before(time.Now()) {
		utils.Fail(c, http.StatusNotFound, "Survey not available")
		return
	}

	questions, err := sc.surveyQuestions(ctx, survey.ID)
	if err != nil {
		log.Println("Error retrieving survey questions:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, surveyDTO{Survey: survey, Questions: questions})
}

// Respond records a user's answers. Answers for unknown question ids are
// silently skipped; each valid answer upserts on the (survey, question,
// user) triple, so resubmission overwrites and concurrent double-submission
// cannot produce duplicate rows.
func (sc *SurveyController) Respond(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	surveyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Survey not found or closed")
		return
	}

	ctx := c.Request.Context()
	var survey models.Survey
	if err := sc.Store.Collection(config.ColSurveys).FindOne(ctx, bson.M{"_id": surveyID}).Decode(&survey); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Survey not found or closed")
		} else {
			log.Println("Error retrieving survey:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	if !survey.Published {
		utils.Fail(c, http.StatusNotFound, "Survey not found or closed")
		return
	}
	if survey.EndsAt.Before(time.Now()) {
		utils.Fail(c, http.StatusBadRequest, "Survey has ended")
		return
	}

	var input struct {
		Answers []struct {
			QuestionID string      `json:"questionId" binding:"required"`
			Value      interface{} `json:"value" binding:"required"`
		} `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	questions, err := sc.surveyQuestions(ctx, surveyID)
	if err != nil {
		log.Println("Error retrieving survey questions:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	known := make(map[primitive.ObjectID]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	responses := sc.Store.Collection(config.ColSurveyResponses)
	now := time.Now()
	for _, answer := range input.Answers {
		questionID, err := primitive.ObjectIDFromHex(answer.QuestionID)
		if err != nil || !known[questionID] {
			// lenient by design: unknown questions are ignored, not rejected
			continue
		}

		_, err = responses.UpdateOne(ctx,
			bson.M{"surveyId": surveyID, "questionId": questionID, "userId": *userID},
			bson.M{
				"$set":         bson.M{"answer": answer.Value, "updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Println("Error upserting survey response:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Results tabulates response counts per declared option for each question
func (sc *SurveyController) Results(c *gin.Context) {
	surveyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "Survey not found")
		return
	}

	ctx := c.Request.Context()
	var survey models.Survey
	if err := sc.Store.Collection(config.ColSurveys).FindOne(ctx, bson.M{"_id": surveyID}).Decode(&survey); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.Fail(c, http.StatusNotFound, "Survey not found")
		} else {
			log.Println("Error retrieving survey:", err)
			utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	questions, err := sc.surveyQuestions(ctx, surveyID)
	if err != nil {
		log.Println("Error retrieving survey questions:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	cursor, err := sc.Store.Collection(config.ColSurveyResponses).Find(ctx, bson.M{"surveyId": surveyID})
	if err != nil {
		log.Println("Error retrieving survey responses:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var responses []models.SurveyResponse
	if err := cursor.All(ctx, &responses); err != nil {
		log.Println("Error decoding survey responses:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{
		"surveyId":       survey.ID,
		"title":          survey.Title,
		"byQuestion":     tabulate(questions, responses),
		"totalResponses": len(responses),
	})
}
