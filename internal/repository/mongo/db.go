package mongo

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// ConnectDB connects to MongoDB and pings the primary. A client that cannot
// reach the primary is disconnected again before the error is returned.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", redactURI(uri), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = DisconnectDB(client)
		return nil, fmt.Errorf("ping %s: %w", redactURI(uri), err)
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// redactURI hides credentials in a connection string before it is logged.
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User("redacted")
	return u.String()
}

// EnsureIndexes creates the indexes of every collection concurrently.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	g, gctx := errgroup.WithContext(ctx)
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		exerciseCollectionName: EnsureExerciseIndexes,
		workoutCollectionName:  EnsureWorkoutIndexes,
		programCollectionName:  EnsureProgramIndexes,
	}
	for name, fn := range ensure {
		name, fn := name, fn
		g.Go(func() error {
			if err := fn(gctx, db.Collection(name)); err != nil {
				return fmt.Errorf("indexes for %s: %w", name, err)
			}
			log.Printf("INFO: Indexes ensured for collection %s", name)
			return nil
		})
	}
	return g.Wait()
}
