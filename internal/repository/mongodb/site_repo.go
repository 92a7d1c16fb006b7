package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type siteRepository struct {
	c *mongo.Collection
}

func NewSiteRepository(db *mongo.Database) *siteRepository {
	return &siteRepository{c: db.Collection("sites")}
}

func (r *siteRepository) Create(ctx context.Context, site *domain.Site) error {
	if site.ID.IsZero() {
		site.ID = primitive.NewObjectID()
	}
	now := time.Now()
	site.CreatedAt = now
	site.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, site); err != nil {
		if isDup(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *siteRepository) GetByRef(ctx context.Context, id primitive.ObjectID) (*domain.Site, error) {
	var s domain.Site
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *siteRepository) GetBySiteID(ctx context.Context, siteID string) (*domain.Site, error) {
	var s domain.Site
	if err := r.c.FindOne(ctx, bson.M{"siteID": siteID}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *siteRepository) GetBySiteIDForUser(ctx context.Context, siteID string, userID primitive.ObjectID) (*domain.Site, error) {
	var s domain.Site
	filter := bson.M{"siteID": siteID, "allowedUsers": userID}
	if err := r.c.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *siteRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Site, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.c.Find(ctx, bson.M{"allowedUsers": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	sites := []*domain.Site{}
	if err := cur.All(ctx, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *siteRepository) AddAllowedUser(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	// $addToSet keeps the allowed set duplicate-free even under races.
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"allowedUsers": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *siteRepository) SiteIDExists(ctx context.Context, siteID string) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"siteID": siteID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
