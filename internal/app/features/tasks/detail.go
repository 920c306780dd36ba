// internal/app/features/tasks/detail.go
package tasks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// taskDetail resolves a task's creator and shared group references.
// A shared group that no longer exists simply resolves to nothing.
func (h *Handler) taskDetail(ctx context.Context, t models.Task) (models.TaskDetail, error) {
	ds, err := h.taskDetails(ctx, []models.Task{t})
	if err != nil {
		return models.TaskDetail{}, err
	}
	return ds[0], nil
}

// taskDetails resolves creator and group references for a batch of
// tasks with one users query and one groups query.
func (h *Handler) taskDetails(ctx context.Context, ts []models.Task) ([]models.TaskDetail, error) {
	userIDs := make([]primitive.ObjectID, 0, len(ts))
	groupIDs := make([]primitive.ObjectID, 0)
	seenUsers := map[primitive.ObjectID]bool{}
	seenGroups := map[primitive.ObjectID]bool{}
	for _, t := range ts {
		if !seenUsers[t.CreatedByID] {
			seenUsers[t.CreatedByID] = true
			userIDs = append(userIDs, t.CreatedByID)
		}
		if t.SharedWith != nil && !seenGroups[*t.SharedWith] {
			seenGroups[*t.SharedWith] = true
			groupIDs = append(groupIDs, *t.SharedWith)
		}
	}

	userRefs, err := userstore.New(h.DB).RefsByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	groupRefs := map[primitive.ObjectID]models.GroupRef{}
	if len(groupIDs) > 0 {
		gs, err := groupstore.New(h.DB).ByIDs(ctx, groupIDs)
		if err != nil {
			return nil, err
		}
		for _, g := range gs {
			groupRefs[g.ID] = g.Ref()
		}
	}

	details := make([]models.TaskDetail, 0, len(ts))
	for _, t := range ts {
		d := models.TaskDetail{Task: t, CreatedBy: userRefs[t.CreatedByID]}
		if t.SharedWith != nil {
			if ref, ok := groupRefs[*t.SharedWith]; ok {
				d.SharedWith = &ref
			}
		}
		details = append(details, d)
	}
	return details, nil
}
