package mongo

import (
	"context"
	"errors"
	"fmt"
	"people-graphql-api/internal/domain/user"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var duplicateKeyPattern = regexp.MustCompile(`dup key: \{ ?([A-Za-z_]+):`)

// UserRepository implements user.Repository on a mongo collection
type UserRepository struct {
	db         *DB
	collection collection
}

func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{
		db:         db,
		collection: db.database.Collection(usersCollection),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	u.ID = bson.NewObjectID().Hex()
	u.CreatedAt = now
	u.UpdatedAt = now

	doc, err := toUserDocument(u)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &user.DuplicateFieldError{Field: duplicateKeyField(err)}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, byEmail(email))
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}
	return r.findOne(ctx, byID(id))
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*user.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toEntity()
	}
	return users, nil
}

func (r *UserRepository) Replace(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	doc, err := toUserDocument(u)
	if err != nil {
		return err
	}

	result, err := r.collection.ReplaceOne(ctx, byID(doc.ID), doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &user.DuplicateFieldError{Field: duplicateKeyField(err)}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) (*user.User, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}

	var doc userDocument
	err = r.collection.FindOneAndDelete(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return doc.toEntity(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

// duplicateKeyField reads the field name out of an E11000 message, e.g.
// `dup key: { email: "a@b.c" }`.
func duplicateKeyField(err error) string {
	if m := duplicateKeyPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return "email"
}
