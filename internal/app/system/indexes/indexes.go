package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Index creation is idempotent, so running
it on every boot is safe. Errors are aggregated so any problem is
visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMemberships(ctx, db); err != nil {
		problems = append(problems, "group_memberships: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers enforces email uniqueness, the Identity Store's hard
// invariant. Duplicate registrations surface as a duplicate-key error.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	return err
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("by_owner"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("by_name_ci"),
		},
	})
	return err
}

// ensureGroupMemberships makes concurrent add-member calls for the same
// (group, user) pair collapse into one row; the unique index is what
// lets the membership store treat duplicates as a typed error instead
// of racing a read-then-insert.
func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("group_memberships").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_group_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("by_user"),
		},
	})
	return err
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetName("by_creator"),
		},
		{
			Keys:    bson.D{{Key: "access_level", Value: 1}},
			Options: options.Index().SetName("by_access_level"),
		},
		{
			Keys:    bson.D{{Key: "shared_with", Value: 1}},
			Options: options.Index().SetName("by_shared_group"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("by_tags"),
		},
	})
	return err
}
