package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"batepapo/internal/domain"
	"batepapo/pkg/errors"
	"batepapo/pkg/logger"
)

type MessageRepository interface {
	Append(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	All(ctx context.Context) ([]domain.Message, error)
}

type messageRepository struct {
	col *mongo.Collection
	log logger.Logger
}

func NewMessageRepository(db *mongo.Database, log logger.Logger) MessageRepository {
	return &messageRepository{col: db.Collection("messages"), log: log}
}

func (r *messageRepository) Append(ctx context.Context, message *domain.Message) error {
	message.ID = primitive.NewObjectID()
	_, err := r.col.InsertOne(ctx, message)
	if err != nil {
		r.log.Error("Failed to append message", "from", message.From, "error", err)
		return err
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error) {
	var message domain.Message
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to get message", "id", id.Hex(), "error", err)
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.log.Error("Failed to delete message", "id", id.Hex(), "error", err)
	}
	return err
}

// All returns the full log in append order. ObjectIDs are assigned at append
// time, so sorting on _id reproduces insertion order.
func (r *messageRepository) All(ctx context.Context) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error("Failed to fetch messages", "error", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err := cursor.All(ctx, &messages); err != nil {
		r.log.Error("Failed to decode messages", "error", err)
		return nil, err
	}
	return messages, nil
}
