package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/shapereach/pkg/catalog"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/table"
)

// MongoConfig configures a MongoDB store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// Codec splits values into source and method for the stored documents.
	Codec catalog.Codec
	// Timeout bounds connection setup. Zero means 10s.
	Timeout time.Duration
}

// Mongo stores one document per record:
//
//	{_id: index, value: packed, source: index, method: "name"}
//
// BSON has no unsigned integers, so indexes and values are stored as the
// int64 with the same bits.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	codec  catalog.Codec
}

type mongoDoc struct {
	Index  int64  `bson:"_id"`
	Value  int64  `bson:"value"`
	Source int64  `bson:"source"`
	Method string `bson:"method"`
}

// OpenMongo connects, pings, and ensures the method index exists.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo: uri is required")
	}
	if err := cfg.Codec.Validate(); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = "shapereach"
	}
	if cfg.Collection == "" {
		cfg.Collection = "derivations"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "mongo ping")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "method", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "mongo create index")
	}

	return &Mongo{client: client, coll: coll, codec: cfg.Codec}, nil
}

func (s *Mongo) Lookup(ctx context.Context, idx uint64) (uint64, bool, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: int64(idx)}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint64(doc.Value), true, nil
}

// Load upserts records with one unordered bulk write.
func (s *Mongo) Load(ctx context.Context, records []table.Record) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(records))
	for i, r := range records {
		doc := s.document(r)
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: doc.Index}}).
			SetReplacement(doc).
			SetUpsert(true)
	}
	_, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *Mongo) Len(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	return int(n), err
}

// CountByMethod returns how many records each method produced.
func (s *Mongo) CountByMethod(ctx context.Context) (map[string]int, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$method"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int{}
	for cur.Next(ctx) {
		var row struct {
			Method string `bson:"_id"`
			N      int    `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Method] = row.N
	}
	return out, cur.Err()
}

// Drop removes the collection.
func (s *Mongo) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

func (s *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Mongo) document(r table.Record) mongoDoc {
	src, m := s.codec.Unpack(r.Value)
	return mongoDoc{
		Index:  int64(r.Index),
		Value:  int64(r.Value),
		Source: int64(src),
		Method: catalog.Name(m),
	}
}

var _ Loader = (*Mongo)(nil)
