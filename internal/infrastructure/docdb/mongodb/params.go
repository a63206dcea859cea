package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sri-intel/console-service/internal/domain/models"
)

const (
	// ParamsCollectionName is the name of the global parameters collection.
	ParamsCollectionName = "global_params"

	// paramsDocID is the fixed document ID; the collection holds one document.
	paramsDocID = "global"
)

// paramsDocument is the persisted shape of the global parameters.
type paramsDocument struct {
	ID            string              `bson:"_id"`
	Options       map[string][]string `bson:"options"`
	MeddicWeights map[string]float64  `bson:"meddicWeights"`
	UpdatedAt     time.Time           `bson:"updatedAt"`
}

// ParamsCollection implements docdb.ParamsCollection for MongoDB.
type ParamsCollection struct {
	coll *mongo.Collection
}

// NewParamsCollection creates a new ParamsCollection.
func NewParamsCollection(db *mongo.Database) *ParamsCollection {
	return &ParamsCollection{
		coll: db.Collection(ParamsCollectionName),
	}
}

// Get retrieves the global parameters document.
func (c *ParamsCollection) Get(ctx context.Context) (*models.GlobalParams, error) {
	var doc paramsDocument
	err := c.coll.FindOne(ctx, bson.M{"_id": paramsDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil // Not stored yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global params: %w", err)
	}

	return &models.GlobalParams{
		Options:       doc.Options,
		MeddicWeights: doc.MeddicWeights,
	}, nil
}

// Upsert replaces the global parameters document, creating it if absent.
func (c *ParamsCollection) Upsert(ctx context.Context, params *models.GlobalParams) error {
	if params == nil {
		return fmt.Errorf("params cannot be nil")
	}

	doc := paramsDocument{
		ID:            paramsDocID,
		Options:       params.Options,
		MeddicWeights: params.MeddicWeights,
		UpdatedAt:     time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := c.coll.ReplaceOne(ctx, bson.M{"_id": paramsDocID}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert global params: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes required by the collection.
// The collection is keyed by _id only, so there is nothing beyond the default.
func (c *ParamsCollection) EnsureIndexes(ctx context.Context) error {
	return nil
}
