package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inlyne/inlyne-server/internal/domain"
	"github.com/inlyne/inlyne-server/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

func NewConnection(uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(database), nil
}

func NewRepositories(db *mongo.Database) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		TempUser:   NewTempUserRepository(db),
		Site:       NewSiteRepository(db),
		SiteInvite: NewSiteInviteRepository(db),
		Comment:    NewCommentRepository(db),
	}
}

// EnsureIndexes creates the unique and TTL indexes the workflows rely on.
// Every call is idempotent; it runs once at startup and fails fast on any
// problem. The unique indexes are the real safety net behind the
// check-then-act id generation.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "workspaceID", Value: 1}}, Options: unique},
		},
		"temp_users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "workspaceID", Value: 1}}, Options: unique},
			// Abandoned signups expire one hour after creation.
			{Keys: bson.D{{Key: "createdAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(int32(domain.TempUserTTL / time.Second))},
		},
		"sites": {
			{Keys: bson.D{{Key: "siteID", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "allowedUsers", Value: 1}}},
		},
		"site_invites": {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "site", Value: 1}, {Key: "email", Value: 1}}},
			// Invites auto-delete at their expiry timestamp.
			{Keys: bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0)},
		},
		"comments": {
			{Keys: bson.D{{Key: "iframeId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	var problems []string
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			problems = append(problems, coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// isDup reports whether err is a unique-index violation (E11000).
func isDup(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}
