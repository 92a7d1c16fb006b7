package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceTablet  DeviceType = "tablet"
	DeviceMobile  DeviceType = "mobile"
)

func (d DeviceType) Valid() bool {
	return d == DeviceDesktop || d == DeviceTablet || d == DeviceMobile
}

// MaxCommentLength caps comment text.
const MaxCommentLength = 1000

// CommentMeta carries the anchoring coordinates and viewport context
// captured at the moment of annotation.
type CommentMeta struct {
	DeviceType     DeviceType `bson:"deviceType" json:"deviceType"`
	IframeSrc      string     `bson:"iframeSrc" json:"iframeSrc"`
	Page           string     `bson:"page" json:"page"`
	Scroll         float64    `bson:"scroll" json:"scroll"`
	ViewportWidth  float64    `bson:"viewportWidth" json:"viewportWidth"`
	ViewportHeight float64    `bson:"viewportHeight" json:"viewportHeight"`
	X              float64    `bson:"x" json:"x"`
	Y              float64    `bson:"y" json:"y"`
}

// Comment is a positioned annotation against a site/iframe/page. UserEmail
// and UserName are snapshots of the author at post time; they are not kept
// in sync with later profile edits. Comments are immutable once created.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	WorkspaceID string             `bson:"workspaceId" json:"workspaceId"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	UserName    string             `bson:"userName" json:"userName"`
	ProjectID   string             `bson:"projectId" json:"projectId"`
	IframeID    string             `bson:"iframeId" json:"iframeId"`
	IframeURL   string             `bson:"iframeUrl" json:"iframeUrl"`
	IframePage  string             `bson:"iframePage" json:"iframePage"`
	Resolved    bool               `bson:"resolved" json:"resolved"`
	Text        string             `bson:"text" json:"text"`
	Meta        CommentMeta        `bson:"meta" json:"meta"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
