// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One occupying booking per slot tuple; cancelled and no-show
		// rows fall out of the partial filter and free the slot.
		{
			Keys: bson.D{
				{Key: "stationId", Value: 1},
				{Key: "bookingDate", Value: 1},
				{Key: "startMinute", Value: 1},
				{Key: "endMinute", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": occupyingStatuses},
				}).
				SetName("unique_occupying_slot_tuple"),
		},
		{
			Keys:    bson.D{{Key: "stationId", Value: 1}, {Key: "bookingDate", Value: 1}},
			Options: options.Index().SetName("station_date_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create bookings indexes: %w", err)
	}
	return nil
}
