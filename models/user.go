package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleResident   UserRole = "RESIDENT"
	RoleOfficial   UserRole = "OFFICIAL"
	RoleJournalist UserRole = "JOURNALIST"
	RoleAdmin      UserRole = "ADMIN"
)

func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleResident, RoleOfficial, RoleJournalist, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email         string              `bson:"email" json:"email"`
	PasswordHash  string              `bson:"passwordHash" json:"-"`
	Name          string              `bson:"name" json:"name"`
	Role          UserRole            `bson:"role" json:"role"`
	DepartmentID  *primitive.ObjectID `bson:"departmentId,omitempty" json:"departmentId,omitempty"`
	AvatarURL     *string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	EmailVerified bool                `bson:"emailVerified" json:"emailVerified"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate))
	return err == nil
}

// EnsureUserIndexes creates the unique email index. Duplicate registration
// surfaces as a write error rather than a check-then-insert race.
func EnsureUserIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
