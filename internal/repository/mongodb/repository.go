package mongodb

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

// Repository defines the interface for label history storage.
type Repository interface {
	SaveLabelRecord(ctx context.Context, record models.LabelRecord) error
	ListLabelRecords(ctx context.Context, query models.HistoryQuery) ([]models.LabelRecord, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "label_records",
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "printed_at", Value: -1}}},
		{Keys: bson.D{{Key: "recorded_date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create label record indexes: %w", err)
	}
	return nil
}

// SaveLabelRecord saves a label record to the database.
func (r *MongoDBRepository) SaveLabelRecord(ctx context.Context, record models.LabelRecord) error {
	_, err := r.collection().InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert label record: %w", err)
	}
	return nil
}

// ListLabelRecords returns matching records, newest print first.
func (r *MongoDBRepository) ListLabelRecords(ctx context.Context, query models.HistoryQuery) ([]models.LabelRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "printed_at", Value: -1}})
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}

	cursor, err := r.collection().Find(ctx, buildFilter(query), findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query label records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.LabelRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode label records: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// buildFilter mirrors models.HistoryQuery.Matches as a MongoDB filter.
func buildFilter(query models.HistoryQuery) bson.M {
	filter := bson.M{}

	field := "recorded_date"
	if query.ByPrintTime {
		field = "printed_at"
	}

	bounds := bson.M{}
	if !query.Since.IsZero() {
		bounds["$gte"] = query.Since
	}
	if !query.Until.IsZero() {
		bounds["$lt"] = query.Until
	}
	if len(bounds) > 0 {
		filter[field] = bounds
	}

	if query.Text != "" {
		pattern := regexMatch(query.Text)
		filter["$or"] = bson.A{
			bson.M{"waste_name": pattern},
			bson.M{"waste_code": pattern},
		}
	}

	return filter
}

func regexMatch(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}
