package repository

import (
	"log/slog"
	"time"
)

// Default MongoDB configuration values.
const (
	DefaultMongoDatabase   = "portfolio"
	DefaultMongoCollection = "messages"
	DefaultMongoTimeout    = 10 * time.Second
)

// mongoOptions holds MongoContactRepository configuration.
type mongoOptions struct {
	database   string
	collection string
	timeout    time.Duration
	logger     *slog.Logger
}

func newMongoOptions(opts ...MongoOption) *mongoOptions {
	o := &mongoOptions{
		database:   DefaultMongoDatabase,
		collection: DefaultMongoCollection,
		timeout:    DefaultMongoTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MongoOption configures a MongoContactRepository.
type MongoOption func(*mongoOptions)

// WithDatabase sets the database name.
func WithDatabase(name string) MongoOption {
	return func(o *mongoOptions) {
		if name != "" {
			o.database = name
		}
	}
}

// WithCollection sets the collection name.
func WithCollection(name string) MongoOption {
	return func(o *mongoOptions) {
		if name != "" {
			o.collection = name
		}
	}
}

// WithTimeout sets the per-operation timeout.
func WithTimeout(d time.Duration) MongoOption {
	return func(o *mongoOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) MongoOption {
	return func(o *mongoOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
