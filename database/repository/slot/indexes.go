// FILE: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slot_blocks collection.
// The partial unique index on the slot tuple is the exclusivity
// guarantee: two live unconfirmed blocks for the same slot cannot
// coexist, no matter how the inserts interleave.
func (repo *MongoSlotBlockRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on block ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One unconfirmed block per slot tuple.
		{
			Keys: bson.D{
				{Key: "stationId", Value: 1},
				{Key: "bookingDate", Value: 1},
				{Key: "startMinute", Value: 1},
				{Key: "endMinute", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isConfirmed": false}).
				SetName("unique_unconfirmed_slot_tuple"),
		},
		// Reaper scan path.
		{
			Keys:    bson.D{{Key: "isConfirmed", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("confirmed_expires_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create slot_blocks indexes: %w", err)
	}
	return nil
}
