package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	AboutCollection       = "abouts"
	ProjectsCollection    = "projects"
	ExperienceCollection  = "experiences"
	SkillsCollection      = "skills"
	SubmissionsCollection = "submissions"
	AdminsCollection      = "admins"
)

// NewClient creates a client without contacting the server. The driver connects
// lazily, so an unreachable database surfaces as errors on individual operations.
// An empty uri falls back to the driver default (localhost:27017).
func NewClient(uri string, timeout time.Duration) (*mongo.Client, error) {
	clientOpts := options.Client().SetServerSelectionTimeout(timeout)
	if uri != "" {
		clientOpts.ApplyURI(uri)
	}
	client, err := mongo.Connect(context.Background(), clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, nil
}

// ConnectMongo opens a connection and verifies it with a ping. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := NewClient(uri, timeout)
	if err != nil {
		return nil, err
	}
	if err := Ping(ctx, client, timeout); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// Ping checks that the server is reachable within timeout.
func Ping(ctx context.Context, client *mongo.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes the application relies on (idempotent).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string]string{
		SkillsCollection: "name",
		AdminsCollection: "email",
	}
	for col, field := range unique {
		idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
		if _, err := db.Collection(col).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("create %s.%s index: %w", col, field, err)
		}
	}
	return nil
}
