package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/knaptrace/knaptrace/pkg/cache"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database defaults to "knaptrace".
	Database string

	// Collection defaults to "reports".
	Collection string

	// ConnectTimeout bounds the initial dial and ping. Defaults to 10s.
	ConnectTimeout time.Duration
}

func (c *MongoConfig) setDefaults() {
	if c.Database == "" {
		c.Database = "knaptrace"
	}
	if c.Collection == "" {
		c.Collection = "reports"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
}

// MongoStore persists reports in a MongoDB collection. The report itself
// is stored as its canonical JSON payload; a few metadata fields are
// lifted into the document for listing and sorting without decoding
// every payload.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored document shape.
type mongoDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	NodesVisited int       `bson:"nodes_visited"`
	BestValue    *float64  `bson:"best_value,omitempty"`
	Payload      []byte    `bson:"payload"`
}

// toDoc converts a report into its stored document.
func toDoc(rep *report.Report) (mongoDoc, error) {
	var buf bytes.Buffer
	if err := report.WriteJSON(rep, &buf); err != nil {
		return mongoDoc{}, err
	}
	s := summarize(rep)
	return mongoDoc{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		NodesVisited: s.NodesVisited,
		BestValue:    s.BestValue,
		Payload:      buf.Bytes(),
	}, nil
}

// toReport decodes the stored payload back into a report.
func (d mongoDoc) toReport() (*report.Report, error) {
	rep, err := report.ReadJSON(bytes.NewReader(d.Payload))
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", d.ID, err)
	}
	return rep, nil
}

// summary builds the listing view without decoding the payload.
func (d mongoDoc) summary() Summary {
	return Summary{
		ID:           d.ID,
		Title:        d.Title,
		CreatedAt:    d.CreatedAt,
		NodesVisited: d.NodesVisited,
		BestValue:    d.BestValue,
	}
}

// NewMongoStore connects to MongoDB and returns a store over the
// configured collection. The connection is verified with a ping via
// [cache.RetryWithBackoff], so a database that is still starting up does
// not fail the first request.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	cfg.setDefaults()
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo %s: %w", cfg.URI, err)
	}

	err = cache.RetryWithBackoff(dialCtx, func() error {
		if err := client.Ping(dialCtx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo %s: %w: %w", cfg.URI, cache.ErrNetwork, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put stores a report, replacing any report with the same ID.
func (s *MongoStore) Put(ctx context.Context, rep *report.Report) error {
	doc, err := toDoc(rep)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// Get retrieves a report by ID. Returns nil, nil if the report doesn't
// exist.
func (s *MongoStore) Get(ctx context.Context, id string) (*report.Report, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toReport()
}

// List returns summaries of all stored reports, newest first. Payloads
// stay on the server; only metadata fields travel.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"payload": 0})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	summaries := make([]Summary, 0)
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		summaries = append(summaries, doc.summary())
	}
	return summaries, cur.Err()
}

// Delete removes a report. Deleting an absent report is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
