// internal/app/policy/taskpolicy.go
package taskpolicy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// The predicates here are pure: they decide (actor, task, action) given
// a consistent snapshot. sharedMember is the membership fact for
// (userID, task.SharedWith) at that snapshot; it is ignored unless the
// task's access level is "group".

// CanView reports whether userID may view the task.
// private → creator only; group → creator or member of the shared
// group; public → any authenticated user.
func CanView(userID primitive.ObjectID, task models.Task, sharedMember bool) bool {
	if task.CreatedByID == userID {
		return true
	}
	switch task.AccessLevel {
	case models.AccessPublic:
		return true
	case models.AccessGroup:
		return sharedMember
	default:
		return false
	}
}

// CanManage reports whether userID may update or delete the task: only
// the creator, regardless of access level.
func CanManage(userID primitive.ObjectID, task models.Task) bool {
	return task.CreatedByID == userID
}

// CanComplete reports whether userID may toggle the task's completed
// flag. private → creator only; group → any member of the shared group;
// public → any authenticated user (the explicit form of behavior the
// access rules otherwise leave open).
func CanComplete(userID primitive.ObjectID, task models.Task, sharedMember bool) bool {
	switch task.AccessLevel {
	case models.AccessPrivate:
		return task.CreatedByID == userID
	case models.AccessGroup:
		return sharedMember
	case models.AccessPublic:
		return true
	default:
		return false
	}
}

// sharedMemberDB resolves the membership fact for a task's shared group.
// Tasks outside "group" access never consult the membership relation.
func sharedMemberDB(ctx context.Context, memberships *membershipstore.Store, userID primitive.ObjectID, task models.Task) (bool, error) {
	if task.AccessLevel != models.AccessGroup || task.SharedWith == nil {
		return false, nil
	}
	return memberships.Exists(ctx, *task.SharedWith, userID)
}

// CanViewDB is the database-backed form of CanView. Returns an error
// only for database faults.
func CanViewDB(ctx context.Context, memberships *membershipstore.Store, userID primitive.ObjectID, task models.Task) (bool, error) {
	shared, err := sharedMemberDB(ctx, memberships, userID, task)
	if err != nil {
		return false, err
	}
	return CanView(userID, task, shared), nil
}

// CanCompleteDB is the database-backed form of CanComplete.
func CanCompleteDB(ctx context.Context, memberships *membershipstore.Store, userID primitive.ObjectID, task models.Task) (bool, error) {
	shared, err := sharedMemberDB(ctx, memberships, userID, task)
	if err != nil {
		return false, err
	}
	return CanComplete(userID, task, shared), nil
}
