package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio/contact/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoopts "go.mongodb.org/mongo-driver/v2/mongo/options"
)

// contactDoc is the stored document. Field names follow the camelCase layout
// used by earlier mongoose-based deployments so existing collections load as-is.
type contactDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Message   string        `bson:"message"`
	Date      time.Time     `bson:"date"`
	Status    string        `bson:"status"`
	IPAddress string        `bson:"ipAddress,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *contactDoc) toModel() *model.ContactMessage {
	return &model.ContactMessage{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Message:   d.Message,
		Date:      d.Date,
		Status:    model.Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// hideIP excludes the client address from every read.
var hideIP = bson.M{"ipAddress": 0}

// MongoContactRepository is the MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	opts       *mongoOptions
	logger     *slog.Logger
}

// Ensure MongoContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*MongoContactRepository)(nil)

// NewMongoContactRepository creates a repository on the given client.
// Call Connect before use.
func NewMongoContactRepository(client *mongo.Client, opts ...MongoOption) *MongoContactRepository {
	o := newMongoOptions(opts...)
	return &MongoContactRepository{
		client: client,
		opts:   o,
		logger: o.logger,
	}
}

// Connect pings the server, selects the collection and creates indexes.
func (r *MongoContactRepository) Connect(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("mongo: client is required")
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	if err := r.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	r.collection = r.client.Database(r.opts.database).Collection(r.opts.collection)

	if err := r.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	r.logger.Info("connected to MongoDB", "database", r.opts.database, "collection", r.opts.collection)
	return nil
}

func (r *MongoContactRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "status", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "createdAt", Value: -1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Ping checks the server is reachable.
func (r *MongoContactRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (r *MongoContactRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Save inserts a new document. MongoDB stores millisecond precision, so
// timestamps are truncated before insert to keep the returned record equal
// to what a later read yields.
func (r *MongoContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	date := now
	if !msg.Date.IsZero() {
		date = msg.Date.UTC().Truncate(time.Millisecond)
	}

	doc := contactDoc{
		ID:        bson.NewObjectID(),
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		Date:      date,
		Status:    string(msg.Status),
		IPAddress: msg.IPAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	msg.ID = doc.ID.Hex()
	msg.Date = date
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return nil
}

// List returns messages newest first with the matching total.
func (r *MongoContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	findOpts := mongoopts.Find().
		SetSort(bson.D{
			bson.E{Key: "createdAt", Value: -1},
			bson.E{Key: "_id", Value: -1},
		}).
		SetProjection(hideIP)
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find contact messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contactDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode contact messages: %w", err)
	}

	messages := make([]*model.ContactMessage, len(docs))
	for i := range docs {
		messages[i] = docs[i].toModel()
	}
	return messages, total, nil
}

// UpdateStatus sets status and updatedAt atomically and returns the new document.
// Malformed ObjectIDs cannot match any document and are reported as ErrNotFound.
func (r *MongoContactRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ContactMessage, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := mongoopts.FindOneAndUpdate().
		SetReturnDocument(mongoopts.After).
		SetProjection(hideIP)

	var doc contactDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact message status: %w", err)
	}
	return doc.toModel(), nil
}

// Stats groups messages by status with a $group aggregation and counts totals.
func (r *MongoContactRepository) Stats(ctx context.Context, since time.Time) (*model.ContactStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate contact stats: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode contact stats: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count contact messages: %w", err)
	}
	today, err := r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("count today's contact messages: %w", err)
	}

	stats := &model.ContactStats{
		Total:    total,
		Today:    today,
		ByStatus: make(map[model.Status]int64, len(groups)),
	}
	for _, g := range groups {
		stats.ByStatus[model.Status(g.Status)] = g.Count
	}
	return stats, nil
}
