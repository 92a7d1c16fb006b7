package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InviteRole string

const (
	InviteRoleViewer InviteRole = "viewer"
	InviteRoleEditor InviteRole = "editor"
)

// SiteInvite is a time-boxed invitation granting a role on a site. The
// token doubles as the lookup key; a TTL index on ExpiresAt removes stale
// invites after expiry.
type SiteInvite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SiteRef   primitive.ObjectID `bson:"site" json:"site"`
	Email     string             `bson:"email" json:"email"`
	Token     string             `bson:"token" json:"-"`
	Role      InviteRole         `bson:"role" json:"role"`
	Accepted  bool               `bson:"accepted" json:"accepted"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SiteInviteTTL is how long an invite link stays redeemable.
const SiteInviteTTL = 24 * time.Hour

func (r InviteRole) Valid() bool {
	return r == InviteRoleViewer || r == InviteRoleEditor
}
