package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Email            string             `json:"email" bson:"email"`
	Password         string             `json:"-" bson:"password,omitempty"`
	Provider         string             `json:"provider,omitempty" bson:"provider,omitempty"`
	IsAdmin          bool               `json:"isAdmin" bson:"isAdmin"`
	IsVerified       bool               `json:"isVerified" bson:"isVerified"`
	VerificationCode string             `json:"-" bson:"verificationCode,omitempty"`
	CodeExpiresAt    *time.Time         `json:"-" bson:"codeExpiresAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public shape returned by auth and admin endpoints.
type UserSummary struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	IsAdmin    bool               `json:"isAdmin"`
	IsVerified bool               `json:"isVerified"`
	CreatedAt  time.Time          `json:"createdAt"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
