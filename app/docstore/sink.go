package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/loader"
)

const (
	DefaultBatchSize = 100
	connectTimeout   = 10 * time.Second
	keyIndexName     = "ingestion_date_category_asin"
)

type collection interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
}

// Sink upserts documents into a MongoDB collection in unordered bulk batches.
type Sink struct {
	client    *mongo.Client
	coll      collection
	batchSize int
	now       func() time.Time
}

type Config struct {
	URI        string
	Database   string
	Collection string
	BatchSize  int
}

// Open connects, pings the primary and ensures the unique key index.
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	_, err = coll.Indexes().CreateOne(pingCtx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "ingestion_date", Value: 1},
			{Key: "category", Value: 1},
			{Key: "asin", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName(keyIndexName),
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to create key index: %w", err)
	}

	slog.Info("Document store ready", "database", cfg.Database, "collection", cfg.Collection)

	sink := newSink(coll, cfg.BatchSize)
	sink.client = client
	return sink, nil
}

func newSink(coll collection, batchSize int) *Sink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Sink{coll: coll, batchSize: batchSize, now: time.Now}
}

func (s *Sink) Name() string {
	return "documents"
}

// Load replaces-or-inserts one document per record. Write errors for single
// documents are collected and the remaining batches still run.
func (s *Sink) Load(ctx context.Context, records []catalog.Record) (loader.Result, error) {
	var result loader.Result
	updatedAt := s.now().UTC()
	opts := options.BulkWrite().SetOrdered(false)

	for start := 0; start < len(records); start += s.batchSize {
		batch := records[start:min(start+s.batchSize, len(records))]

		models := make([]mongo.WriteModel, 0, len(batch))
		for _, r := range batch {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(keyFilter(r)).
				SetReplacement(newBook(r, updatedAt)).
				SetUpsert(true))
		}

		res, err := s.coll.BulkWrite(ctx, models, opts)

		var bulkErr mongo.BulkWriteException
		if err != nil && !errors.As(err, &bulkErr) {
			return result, fmt.Errorf("failed to write batch at offset %d: %w", start, err)
		}
		for _, writeErr := range bulkErr.WriteErrors {
			key := "unknown"
			if writeErr.Index >= 0 && writeErr.Index < len(batch) {
				key = batch[writeErr.Index].Key().String()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", key, writeErr.Message))
		}
		if bulkErr.WriteConcernError != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch at offset %d: %s", start, bulkErr.WriteConcernError.Message))
		}

		if res != nil {
			result.Inserted += int(res.UpsertedCount + res.InsertedCount)
			result.Updated += int(res.MatchedCount)
		}
	}

	return result, nil
}

func (s *Sink) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
