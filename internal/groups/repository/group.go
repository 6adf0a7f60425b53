package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	groupserrors "roomly/internal/groups/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GroupCollectionName      = "Groups"
	MembershipCollectionName = "Group_memberships"
)

// GroupRepository stores groups and memberships. Group membership is the
// authoritative source for role derivation.
type GroupRepository interface {
	FindByName(ctx context.Context, name string) (*model.Group, error)
	EnsureGroup(ctx context.Context, name string) (*model.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	MemberIDs(ctx context.Context, groupID string) ([]string, error)
}

type mongoGroupRepository struct {
	cfg         *config.Config
	groups      *mongo.Collection
	memberships *mongo.Collection
}

func NewMongoGroupRepository(cfg *config.Config) GroupRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGroupRepository{
		cfg:         cfg,
		groups:      db.Collection(GroupCollectionName),
		memberships: db.Collection(MembershipCollectionName),
	}
}

func (r *mongoGroupRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoGroupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var group model.Group
	err := r.groups.FindOne(ctx, bson.M{"name": name}).Decode(&group)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, groupserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	return &group, nil
}

// EnsureGroup returns the group with the given name, creating it if absent.
func (r *mongoGroupRepository) EnsureGroup(ctx context.Context, name string) (*model.Group, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":       name,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var group model.Group
	err := r.groups.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&group)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure group %q: %w", name, err)
	}

	return &group, nil
}

func (r *mongoGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(groupID); err != nil {
		return fmt.Errorf("%w: %s", groupserrors.ErrInvalidID, groupID)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"group_id": groupID, "user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"group_id":   groupID,
			"user_id":    userID,
			"created_at": now,
		},
	}

	// Upsert keeps membership idempotent; the unique index on
	// (group_id, user_id) backstops races.
	_, err := r.memberships.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *mongoGroupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.memberships.CountDocuments(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

func (r *mongoGroupRepository) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.memberships.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer cursor.Close(ctx)

	var memberships []*model.GroupMembership
	if err = cursor.All(ctx, &memberships); err != nil {
		return nil, fmt.Errorf("failed to decode group members: %w", err)
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}
