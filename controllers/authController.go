package controllers

import (
	"log"
	"net/http"
	"time"
	"unicode"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthController struct {
	Store *config.Store
}

func NewAuthController(store *config.Store) *AuthController {
	return &AuthController{Store: store}
}

// safeUser is the user shape returned to clients (no password hash)
type safeUser struct {
	ID            primitive.ObjectID `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	Role          models.UserRole    `json:"role"`
	AvatarURL     *string            `json:"avatarUrl,omitempty"`
	EmailVerified bool               `json:"emailVerified"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func toSafeUser(u models.User) safeUser {
	return safeUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// passwordPolicy requires at least one uppercase, one lowercase and one
// digit; length is enforced by the binding tag.
func passwordPolicy(password string) bool {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Register creates a new account. A duplicate email fails with 409; the
// unique index is what actually enforces it under concurrent registration.
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required,min=2,max=100"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	if !passwordPolicy(input.Password) {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
			"password": {"must include uppercase, lowercase, and a number"},
		})
		return
	}

	role := models.RoleResident
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			utils.FailFields(c, http.StatusBadRequest, "Validation failed", map[string][]string{
				"role": {"is invalid"},
			})
			return
		}
		role = models.UserRole(input.Role)
	}

	user := models.User{
		Email:     input.Email,
		Name:      input.Name,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		log.Println("Error hashing password:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	result, err := ac.Store.Collection(config.ColUsers).InsertOne(c.Request.Context(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Println("Error inserting user:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	accessToken, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		log.Println("Error generating token:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"user":        toSafeUser(user),
		"accessToken": accessToken,
	})
}

// Login checks credentials and issues a bearer token
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.FailFields(c, http.StatusBadRequest, "Validation failed", utils.BindingErrors(err))
		return
	}

	var user models.User
	err := ac.Store.Collection(config.ColUsers).FindOne(c.Request.Context(), bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.ComparePassword(input.Password) {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		log.Println("Error generating token:", err)
		utils.Fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"user":        toSafeUser(user),
		"accessToken": accessToken,
	})
}

// Me returns the authenticated user's profile
func (ac *AuthController) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
		return
	}

	var user models.User
	err := ac.Store.Collection(config.ColUsers).FindOne(c.Request.Context(), bson.M{"_id": *userID}).Decode(&user)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toSafeUser(user)})
}
