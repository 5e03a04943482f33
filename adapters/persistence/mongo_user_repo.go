package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/talent-identity/internal/domain/user"
)

const collectionUsers = "users"

type mongoUserRepo struct {
	collection *mongo.Collection
}

// NewMongoUserRepo returns a repository backed by the users collection and
// makes sure the unique email index exists.
func NewMongoUserRepo(ctx context.Context, db *mongo.Database) (user.Repository, error) {
	r := &mongoUserRepo{collection: db.Collection(collectionUsers)}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// ensureIndexes creates the unique email index that backs registration.
func (r *mongoUserRepo) ensureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	return nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var rec userRecord
	err := r.collection.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}
	u, err := rec.toDomain()
	if err != nil {
		return nil, fmt.Errorf("corrupt user document %q: %w", rec.ID, err)
	}
	return u, nil
}

func (r *mongoUserRepo) Create(ctx context.Context, u *user.User) error {
	_, err := r.collection.InsertOne(ctx, toUserRecord(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Save replaces the whole document; concurrent writers are last-write-wins.
func (r *mongoUserRepo) Save(ctx context.Context, u *user.User) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": u.ID.String()}, toUserRecord(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
