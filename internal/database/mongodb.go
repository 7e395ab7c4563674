package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bizlink/bizlink-admin/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectWithRetry calls ConnectMongo up to attempts times, waiting wait
// between tries.
func ConnectWithRetry(ctx context.Context, uri string, timeout time.Duration, attempts int, wait time.Duration) (*mongo.Client, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := ConnectMongo(ctx, uri, timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("mongo connect attempt %d/%d failed: %v", i, attempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// Indexes lists the indexes each collection needs, keyed by collection name.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"members": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "referralCode", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_referral_code")},
			{Keys: bson.D{{Key: "adminApproved", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("pending")},
		},
		"asks": {
			{Keys: bson.D{{Key: "ownerMemberId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("owner_created")},
			{Keys: bson.D{{Key: "companyName", Value: 1}}, Options: options.Index().SetName("company")},
		},
		"gives": {
			{Keys: bson.D{{Key: "ownerMemberId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("owner_created")},
			{Keys: bson.D{{Key: "companyName", Value: 1}, {Key: "department", Value: 1}}, Options: options.Index().SetName("company_dept")},
		},
		"businesses": {
			{Keys: bson.D{{Key: "ownerMemberId", Value: 1}}, Options: options.Index().SetName("owner")},
		},
		"calendarevents": {
			{Keys: bson.D{{Key: "reminderSent", Value: 1}, {Key: "startsAt", Value: 1}}, Options: options.Index().SetName("reminder_due")},
		},
	}
}

// EnsureIndexes creates the indexes returned by Indexes. CreateMany is
// idempotent for identical definitions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for col, models := range Indexes() {
		names, err := db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", col, err)
		}
		logger.Debugf("indexes on %s: %v", col, names)
	}
	return nil
}
