package store

import (
	"context"
	"fmt"

	"github.com/permauto/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SecurityLogs interface {
	// List returns all gate entry/exit records, newest first.
	List(ctx context.Context) ([]models.SecurityLog, error)
}

type MongoSecurityLogs struct {
	col *mongo.Collection
}

func NewSecurityLogs(col *mongo.Collection) *MongoSecurityLogs {
	return &MongoSecurityLogs{col: col}
}

func (s *MongoSecurityLogs) List(ctx context.Context) ([]models.SecurityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list security logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]models.SecurityLog, 0)
	for cursor.Next(ctx) {
		var l models.SecurityLog
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("decode security log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list security logs: %w", err)
	}
	return logs, nil
}
