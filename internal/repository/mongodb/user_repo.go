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

type userRepository struct {
	c *mongo.Collection
	t *mongo.Collection // temp_users, probed for workspace id uniqueness
}

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{
		c: db.Collection("users"),
		t: db.Collection("temp_users"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, user); err != nil {
		if isDup(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.c.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) WorkspaceIDExists(ctx context.Context, workspaceID string) (bool, error) {
	filter := bson.M{"workspaceID": workspaceID}

	n, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	n, err = r.t.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
