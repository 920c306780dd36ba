// internal/app/features/groups/detail.go
package groups

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// groupDetail resolves the owner reference, and the full member list
// when withMembers is set. List endpoints skip the member expansion to
// keep the query count flat.
func (h *Handler) groupDetail(ctx context.Context, g models.Group, withMembers bool) (models.GroupDetail, error) {
	users := userstore.New(h.DB)

	ids := []primitive.ObjectID{g.OwnerID}
	var memberIDs []primitive.ObjectID
	if withMembers {
		var err error
		memberIDs, err = membershipstore.New(h.DB).UserIDsForGroup(ctx, g.ID)
		if err != nil {
			return models.GroupDetail{}, err
		}
		ids = append(ids, memberIDs...)
	}

	refs, err := users.RefsByIDs(ctx, ids)
	if err != nil {
		return models.GroupDetail{}, err
	}

	detail := models.GroupDetail{Group: g, Owner: refs[g.OwnerID]}
	if withMembers {
		detail.Members = make([]models.UserRef, 0, len(memberIDs))
		for _, id := range memberIDs {
			if ref, ok := refs[id]; ok {
				detail.Members = append(detail.Members, ref)
			}
		}
	}
	return detail, nil
}
