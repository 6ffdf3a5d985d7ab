package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

const (
	usersCollection     = "users"
	usernameIndexName   = "uniq_username"
	emailIndexName      = "uniq_email"
	mongoUpdatedAtField = "updated_at"
)

// userMongo is the MongoDB implementation of usecase.UserRepository.
// Uniqueness is enforced by the unique indexes created in EnsureIndexes.
type userMongo struct {
	coll *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a userMongo over the users collection of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username and email indexes.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usernameIndexName),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
	})
	return err
}

// Create inserts the user, assigning a new UUID.
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	u.ID = uuid.NewString()
	u.UpdatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if dup := mongoDuplicateKeyError(err); dup != nil {
			return dup
		}
		return err
	}
	return nil
}

// FindByID returns usecase.ErrUserNotFound if no document has the ID.
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByUsername returns usecase.ErrUserNotFound if no document has the username.
func (r *userMongo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

// FindByEmail returns usecase.ErrUserNotFound if no document has the email.
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// UpdatePartial $sets fields and returns the document after the update.
func (r *userMongo) UpdatePartial(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	set := bson.M{mongoUpdatedAtField: time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var u entity.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		if dup := mongoDuplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	return &u, nil
}

// TouchLastLogin sets last_login on the document.
func (r *userMongo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "last_login", Value: at}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userMongo) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var u entity.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// mongoDuplicateKeyError maps E11000 errors to *usecase.DuplicateKeyError.
// The violated index name is part of the server message.
func mongoDuplicateKeyError(err error) *usecase.DuplicateKeyError {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return &usecase.DuplicateKeyError{Field: fieldFromDetail(err.Error())}
}
