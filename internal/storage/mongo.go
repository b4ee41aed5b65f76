// Package storage persists discovery runs and listings. MongoDB holds the raw
// run output; PostgreSQL holds analyzed listings for querying and rescoring.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmscout/farmscout/config"
	"github.com/farmscout/farmscout/models"
)

type MongoStore struct {
	Client *mongo.Client
	DB     *mongo.Database
	cfg    *config.MongoConfig
}

func NewMongoStore(ctx context.Context, cfg *config.MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB")
	return &MongoStore{
		Client: client,
		DB:     client.Database(cfg.DBName),
		cfg:    cfg,
	}, nil
}

// AddRun records a completed discovery run and returns its id, used as the
// RunID on the listings it produced.
func (m *MongoStore) AddRun(ctx context.Context, run *models.DiscoveryRun) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	run.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	res, err := m.DB.Collection(m.cfg.RunColl).InsertOne(ctx, run)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert run: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("failed to cast InsertedID to ObjectID: got type %T", res.InsertedID)
	}
	return oid, nil
}

func (m *MongoStore) AddListings(ctx context.Context, runID string, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	docs := make([]interface{}, len(listings))
	for i := range listings {
		listings[i].RunID = runID
		if listings[i].ID.IsZero() {
			listings[i].CreatedAt = now
		}
		listings[i].UpdatedAt = now
		docs[i] = listings[i]
	}

	if _, err := m.DB.Collection(m.cfg.ListingColl).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert listings: %w", err)
	}
	return nil
}

// GetListings pages through stored listings in insertion order, optionally
// scoped to one run.
func (m *MongoStore) GetListings(ctx context.Context, runID string, batchSize int, lastID *primitive.ObjectID) ([]models.Listing, *primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{}
	if runID != "" {
		filter["run_id"] = runID
	}
	if lastID != nil {
		filter["_id"] = bson.M{"$gt": *lastID}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(batchSize))

	cursor, err := m.DB.Collection(m.cfg.ListingColl).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	var newLastID *primitive.ObjectID
	if len(listings) > 0 {
		last := listings[len(listings)-1].ID
		newLastID = &last
	}
	return listings, newLastID, nil
}

func (m *MongoStore) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	log.Println("MongoDB connection closed")
	return nil
}
