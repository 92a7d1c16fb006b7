package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a fully registered account. Users are only ever created by
// completing the signup workflow (TempUser promotion); there is no direct
// registration path.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"password" json:"-"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`
	WorkspaceID  string             `bson:"workspaceID" json:"workspaceID"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TempUser is the transient pre-account record backing the signup flow.
// It is created at signup, marked verified when the email link is followed,
// and consumed when the password is set. A TTL index removes abandoned
// records one hour after creation.
type TempUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	Name              string             `bson:"name" json:"name"`
	VerificationToken string             `bson:"verificationToken" json:"-"`
	IsEmailVerified   bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	WorkspaceID       string             `bson:"workspaceID" json:"workspaceID"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// TempUserTTL is how long an abandoned signup survives before the TTL
// index deletes it.
const TempUserTTL = time.Hour
