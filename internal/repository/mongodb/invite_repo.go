package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type siteInviteRepository struct {
	c *mongo.Collection
}

func NewSiteInviteRepository(db *mongo.Database) *siteInviteRepository {
	return &siteInviteRepository{c: db.Collection("site_invites")}
}

func (r *siteInviteRepository) Create(ctx context.Context, invite *domain.SiteInvite) error {
	if invite.ID.IsZero() {
		invite.ID = primitive.NewObjectID()
	}
	invite.Email = strings.ToLower(invite.Email)
	invite.CreatedAt = time.Now()

	if _, err := r.c.InsertOne(ctx, invite); err != nil {
		if isDup(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *siteInviteRepository) GetPending(ctx context.Context, siteRef primitive.ObjectID, email string) (*domain.SiteInvite, error) {
	var inv domain.SiteInvite
	filter := bson.M{
		"site":     siteRef,
		"email":    strings.ToLower(email),
		"accepted": false,
	}
	if err := r.c.FindOne(ctx, filter).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *siteInviteRepository) GetByToken(ctx context.Context, token string) (*domain.SiteInvite, error) {
	var inv domain.SiteInvite
	if err := r.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *siteInviteRepository) MarkAccepted(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"accepted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
