package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"batepapo/internal/domain"
	"batepapo/pkg/errors"
	"batepapo/pkg/logger"
)

type ParticipantRepository interface {
	Register(ctx context.Context, participant *domain.Participant) error
	Touch(ctx context.Context, name string, lastStatus int64) error
	List(ctx context.Context) ([]domain.Participant, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

type participantRepository struct {
	col *mongo.Collection
	log logger.Logger
}

func NewParticipantRepository(db *mongo.Database, log logger.Logger) ParticipantRepository {
	return &participantRepository{col: db.Collection("participants"), log: log}
}

// EnsureIndexes builds the unique index on participant names. It runs during
// the startup phase, before any request or sweep touches the collections, so
// Register can rely on the store's own uniqueness enforcement.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("participants").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *participantRepository) Register(ctx context.Context, participant *domain.Participant) error {
	_, err := r.col.InsertOne(ctx, participant)
	if mongo.IsDuplicateKeyError(err) {
		return errors.ErrNameTaken
	}
	if err != nil {
		r.log.Error("Failed to insert participant", "name", participant.Name, "error", err)
		return err
	}
	return nil
}

func (r *participantRepository) Touch(ctx context.Context, name string, lastStatus int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"lastStatus": lastStatus}},
	)
	if err != nil {
		r.log.Error("Failed to touch participant", "name", name, "error", err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		r.log.Error("Failed to list participants", "error", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []domain.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		r.log.Error("Failed to decode participants", "error", err)
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) Remove(ctx context.Context, name string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		r.log.Error("Failed to remove participant", "name", name, "error", err)
	}
	return err
}

func (r *participantRepository) Exists(ctx context.Context, name string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		r.log.Error("Failed to check participant existence", "name", name, "error", err)
		return false, err
	}
	return count > 0, nil
}
