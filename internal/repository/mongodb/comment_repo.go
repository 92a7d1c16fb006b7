package mongodb

import (
	"context"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	c *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *commentRepository {
	return &commentRepository{c: db.Collection("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.c.InsertOne(ctx, comment)
	return err
}

func (r *commentRepository) ListByIframe(ctx context.Context, iframeID, page string, deviceType domain.DeviceType) ([]*domain.Comment, error) {
	// Filters are exact-match AND semantics; empty page/deviceType widen
	// the result set rather than matching empty strings.
	filter := bson.M{"iframeId": iframeID}
	if page != "" {
		filter["iframePage"] = page
	}
	if deviceType != "" {
		filter["meta.deviceType"] = deviceType
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []*domain.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
