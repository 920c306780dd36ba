// Package oauthstate persists short-lived OAuth state tokens so the
// Google callback can verify that it belongs to a flow we started.
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// ErrInvalidState is returned when the state is unknown or expired.
var ErrInvalidState = errors.New("unknown or expired OAuth state")

type stateDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ReturnURL string             `bson:"return_url"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Save stores a state token with its expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	_, err := s.c.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// Consume atomically looks up and deletes a state token, so each state
// is usable exactly once. Returns the stored return URL.
func (s *Store) Consume(ctx context.Context, state string) (string, error) {
	var doc stateDoc
	err := s.c.FindOneAndDelete(ctx, bson.M{"state": state}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", err
	}
	if time.Now().UTC().After(doc.ExpiresAt) {
		return "", ErrInvalidState
	}
	return doc.ReturnURL, nil
}
