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

type tempUserRepository struct {
	c *mongo.Collection
}

func NewTempUserRepository(db *mongo.Database) *tempUserRepository {
	return &tempUserRepository{c: db.Collection("temp_users")}
}

func (r *tempUserRepository) Create(ctx context.Context, tempUser *domain.TempUser) error {
	if tempUser.ID.IsZero() {
		tempUser.ID = primitive.NewObjectID()
	}
	tempUser.Email = strings.ToLower(tempUser.Email)
	tempUser.CreatedAt = time.Now()

	if _, err := r.c.InsertOne(ctx, tempUser); err != nil {
		if isDup(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *tempUserRepository) GetByToken(ctx context.Context, email, name, verificationToken string) (*domain.TempUser, error) {
	var tu domain.TempUser
	filter := bson.M{
		"email":             strings.ToLower(email),
		"name":              name,
		"verificationToken": verificationToken,
	}
	if err := r.c.FindOne(ctx, filter).Decode(&tu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tu, nil
}

func (r *tempUserRepository) MarkEmailVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isEmailVerified": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tempUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.c.DeleteOne(ctx, bson.M{"email": strings.ToLower(email)})
	return err
}
