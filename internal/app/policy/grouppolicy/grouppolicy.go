// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// CanView reports whether userID may view the group: any member may.
// isMember is the membership fact for (userID, group) at the snapshot
// being decided; the owner always has a membership row, so the owner is
// covered without a special case.
func CanView(userID primitive.ObjectID, group models.Group, isMember bool) bool {
	_ = group
	return isMember
}

// CanManage reports whether userID may rename, delete, or change the
// membership of the group: only the owner.
func CanManage(userID primitive.ObjectID, group models.Group) bool {
	return group.OwnerID == userID
}

// CanViewDB is the database-backed form of CanView for handlers that
// have not already resolved membership. Returns an error only for
// database faults, so callers can distinguish "not authorized"
// (false, nil) from "check failed" (false, err).
func CanViewDB(ctx context.Context, memberships *membershipstore.Store, userID primitive.ObjectID, group models.Group) (bool, error) {
	isMember, err := memberships.Exists(ctx, group.ID, userID)
	if err != nil {
		return false, err
	}
	return CanView(userID, group, isMember), nil
}
