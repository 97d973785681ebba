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

type DepartmentController struct {
	Store *config.Store
}

func NewDepartmentController(store *config.Store) *DepartmentController {
	return &DepartmentController{Store: store}
}

// List returns all departments, name ascending
func (dc *DepartmentController) List(c *gin.Context) {
	ctx := c.Request.Context()
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := dc.Store.Collection(config.ColDepartments).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Println("Error retrieving departments:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer cursor.Close(ctx)

	var departments []models.Department
	if err := cursor.All(ctx, &departments); err != nil {
		log.Println("Error decoding departments:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.OK(c, http.StatusOK, departments)
}

// Create adds a department. Admin only; duplicate slugs fail with 409 via
// the unique index.
func (dc *DepartmentController) Create(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required,min=2,max=100"`
		Slug        string  `json:"slug" binding:"required,min=2,max=100"`
		Description *string `json:"description,omitempty"`
		City        *string `json:"city,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	department := models.Department{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		City:        input.City,
		CreatedAt:   time.Now(),
	}

	result, err := dc.Store.Collection(config.ColDepartments).InsertOne(c.Request.Context(), department)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusConflict, "A department with this slug already exists")
			return
		}
		log.Println("Error inserting department:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	department.ID = result.InsertedID.(primitive.ObjectID)
	utils.OK(c, http.StatusCreated, department)
}
