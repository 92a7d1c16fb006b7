package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Site is an external URL registered for iframe-embedded visual review.
// AllowedUsers is treated as a set; the creator is the first entry and is
// implicitly the owner.
type Site struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	URL          string               `bson:"url" json:"url"`
	CoverImage   *string              `bson:"coverImage" json:"coverImage"`
	SiteID       string               `bson:"siteID" json:"siteID"`
	AllowedUsers []primitive.ObjectID `bson:"allowedUsers" json:"allowedUsers"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
