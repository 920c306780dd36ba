// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/taskhive/internal/app/system/normalize"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// Store owns the tasks collection.
//
// Two rules hold for every write in this file:
//   - access_level and shared_with are always written in the same $set,
//     so no reader can observe access_level="group" with a null group or
//     the reverse.
//   - creator-only mutations put created_by in the update filter instead
//     of checking it in application code first, so the check and the
//     write are one atomic operation.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var (
	// ErrMissingFields is returned when title or description is empty.
	ErrMissingFields = errors.New("title and description are required")
	// ErrBadPriority is returned for a priority outside Low/Medium/High.
	ErrBadPriority = errors.New(`priority must be "Low", "Medium", or "High"`)
	// ErrBadAccessLevel is returned for an access level outside private/group/public.
	ErrBadAccessLevel = errors.New(`accessLevel must be "private", "group", or "public"`)
	// ErrGroupRequired is returned when accessLevel is "group" without a group reference.
	ErrGroupRequired = errors.New(`a group is required when accessLevel is "group"`)
	// ErrNotCreator is returned when a mutation is attempted by someone other
	// than the task's creator.
	ErrNotCreator = errors.New("only the task creator may modify this task")
)

// CreateParams carries the client-supplied fields for a new task.
type CreateParams struct {
	Title        string
	Description  string
	ResourceLink string
	Tags         []string
	Priority     string              // defaults to Medium
	AccessLevel  string              // defaults to private
	SharedWith   *primitive.ObjectID // meaningful only when AccessLevel is "group"
}

// Create inserts a new task owned by creatorID. Whatever the client
// supplied for SharedWith is discarded unless AccessLevel is "group";
// the caller is responsible for having verified that the group exists
// and that the creator is a member.
func (s *Store) Create(ctx context.Context, creatorID primitive.ObjectID, p CreateParams) (models.Task, error) {
	title := normalize.Name(p.Title)
	if title == "" || p.Description == "" {
		return models.Task{}, ErrMissingFields
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return models.Task{}, ErrBadPriority
	}

	level := p.AccessLevel
	if level == "" {
		level = models.AccessPrivate
	}
	if !models.ValidAccessLevel(level) {
		return models.Task{}, ErrBadAccessLevel
	}

	shared := p.SharedWith
	if level != models.AccessGroup {
		shared = nil
	} else if shared == nil {
		return models.Task{}, ErrGroupRequired
	}

	now := time.Now().UTC()
	t := models.Task{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Description:  p.Description,
		ResourceLink: p.ResourceLink,
		Tags:         normalize.Tags(p.Tags),
		Priority:     priority,
		Completed:    false,
		AccessLevel:  level,
		SharedWith:   shared,
		CreatedByID:  creatorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListVisible returns the union of the user's own tasks, public tasks,
// and group tasks shared with any of groupIDs. A single query does the
// union, so a task matching several clauses still appears exactly once.
func (s *Store) ListVisible(ctx context.Context, userID primitive.ObjectID, groupIDs []primitive.ObjectID) ([]models.Task, error) {
	or := bson.A{
		bson.M{"created_by": userID},
		bson.M{"access_level": models.AccessPublic},
	}
	if len(groupIDs) > 0 {
		or = append(or, bson.M{
			"access_level": models.AccessGroup,
			"shared_with":  bson.M{"$in": groupIDs},
		})
	}

	cur, err := s.c.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateParams carries a task patch. Nil fields keep their current
// values; AccessLevel and SharedWith move together or not at all.
type UpdateParams struct {
	Title        *string
	Description  *string
	ResourceLink *string
	Tags         []string // nil keeps current tags
	Priority     *string
	AccessLevel  *string
	SharedWith   *primitive.ObjectID
	Completed    *bool
}

// UpdateByCreator applies a patch in one conditional update with
// created_by in the filter. When the patch changes AccessLevel away from
// "group", shared_with is forced to null in the same $set regardless of
// any client-supplied value; when it changes to "group", the caller must
// have validated the group and supplied it in SharedWith.
//
// Returns mongo.ErrNoDocuments if the task does not exist and
// ErrNotCreator if it exists but requester is not the creator.
func (s *Store) UpdateByCreator(ctx context.Context, id, creatorID primitive.ObjectID, p UpdateParams) (models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if p.Title != nil {
		title := normalize.Name(*p.Title)
		if title == "" {
			return models.Task{}, ErrMissingFields
		}
		set["title"] = title
	}
	if p.Description != nil {
		if *p.Description == "" {
			return models.Task{}, ErrMissingFields
		}
		set["description"] = *p.Description
	}
	if p.ResourceLink != nil {
		set["resource_link"] = *p.ResourceLink
	}
	if p.Tags != nil {
		set["tags"] = normalize.Tags(p.Tags)
	}
	if p.Priority != nil {
		if !models.ValidPriority(*p.Priority) {
			return models.Task{}, ErrBadPriority
		}
		set["priority"] = *p.Priority
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	if p.AccessLevel != nil {
		level := *p.AccessLevel
		if !models.ValidAccessLevel(level) {
			return models.Task{}, ErrBadAccessLevel
		}
		set["access_level"] = level
		if level == models.AccessGroup {
			if p.SharedWith == nil {
				return models.Task{}, ErrGroupRequired
			}
			set["shared_with"] = *p.SharedWith
		} else {
			// Stray client-supplied sharedWith values are dropped here.
			set["shared_with"] = nil
		}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "created_by": creatorID}, bson.M{"$set": set})
	if err != nil {
		return models.Task{}, err
	}
	if res.MatchedCount == 0 {
		return models.Task{}, s.missingOrNotCreator(ctx, id)
	}
	return s.GetByID(ctx, id)
}

// DeleteByCreator removes the task if requester created it.
//
// Returns mongo.ErrNoDocuments if the task does not exist and
// ErrNotCreator if it exists but requester is not the creator.
func (s *Store) DeleteByCreator(ctx context.Context, id, creatorID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "created_by": creatorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.missingOrNotCreator(ctx, id)
	}
	return nil
}

// ToggleCompleted flips the completed flag in a single aggregation-
// pipeline update, so two members toggling concurrently always land on
// a well-defined value instead of losing one of the writes. The caller
// must have already authorized the requester. Returns the updated task.
func (s *Store) ToggleCompleted(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"completed":  bson.M{"$not": "$completed"},
			"updated_at": "$$NOW",
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t models.Task
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// DemoteSharedToPrivate is the group-deletion cascade: every task shared
// with the deleted group drops to private, clearing its group reference
// in the same update so no dangling shared_with survives. Returns the
// number of tasks demoted.
func (s *Store) DemoteSharedToPrivate(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"access_level": models.AccessGroup, "shared_with": groupID},
		bson.M{"$set": bson.M{
			"access_level": models.AccessPrivate,
			"shared_with":  nil,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// missingOrNotCreator disambiguates a zero-match conditional write.
func (s *Store) missingOrNotCreator(ctx context.Context, id primitive.ObjectID) error {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return ErrNotCreator
	}
	return err // mongo.ErrNoDocuments or a real fault
}
