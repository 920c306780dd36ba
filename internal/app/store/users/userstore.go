package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/app/system/normalize"
	"github.com/taskhive/taskhive/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Create inserts a new user after normalizing fields and hashing the
// password. Email uniqueness is enforced by the unique index; a
// duplicate surfaces as ErrDuplicateEmail. It does not write any group
// membership rows.
func (s *Store) Create(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         normalize.Name(name),
		Email:        normalize.Email(email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.NameCI = text.Fold(u.Name)

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyCredentials checks an email/password pair and returns the user
// on success. Unknown email and wrong password both return
// ErrInvalidCredentials.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RefsByIDs loads the {_id, name, email} shape for a batch of user IDs.
// Missing IDs are simply absent from the result map.
func (s *Store) RefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs := make(map[primitive.ObjectID]models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var ref models.UserRef
		if err := cur.Decode(&ref); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, cur.Err()
}
