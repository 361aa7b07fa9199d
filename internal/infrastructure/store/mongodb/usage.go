package mongodb

import (
	"context"
	"fmt"
	"time"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsageCollection = "usage"

// Connect dials and pings the server. The caller owns Disconnect.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		metrics.IncError("mongo", "connect")
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		metrics.IncError("mongo", "ping")
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// MongoUsageRepo appends usage records. Nothing in the service reads them back.
type MongoUsageRepo struct {
	usageCol *mongo.Collection
}

func NewMongoUsageRepo(db *mongo.Database) repository.UsageRepository {
	col := db.Collection(UsageCollection)

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "created_at", Value: -1}}},
		{Keys: bson.D{bson.E{Key: "category", Value: 1}}},
	})

	return &MongoUsageRepo{
		usageCol: col,
	}
}

func (r *MongoUsageRepo) Record(ctx context.Context, rec *entity.UsageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := r.usageCol.InsertOne(ctx, rec); err != nil {
		metrics.IncError("mongo_usage_repo", "insert_error")
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}
