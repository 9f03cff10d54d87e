package slotRepo

import (
	"context"
	"fmt"
	"time"

	"stationbook/database"
	"stationbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSlotBlockRepo implements SlotBlockRepository using MongoDB.
type MongoSlotBlockRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotBlockRepo constructs a new instance of MongoSlotBlockRepo.
func NewMongoSlotBlockRepo() SlotBlockRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoSlotBlockRepo{coll: db.Collection("slot_blocks")}
}

// Insert stores a new unconfirmed block. A duplicate-key error from the
// partial unique index on the slot tuple maps to ErrDuplicateSlot.
func (repo *MongoSlotBlockRepo) Insert(ctx context.Context, block *models.SlotBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, block); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("error inserting slot block: %w", err)
	}
	return nil
}

// GetByID retrieves a block by its id.
func (repo *MongoSlotBlockRepo) GetByID(ctx context.Context, blockID string) (*models.SlotBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var block models.SlotBlock
	if err := repo.coll.FindOne(ctx, bson.M{"id": blockID}).Decode(&block); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("error fetching slot block %s: %w", blockID, err)
	}
	return &block, nil
}

// LiveForDay returns unconfirmed, unexpired blocks for a station/date.
func (repo *MongoSlotBlockRepo) LiveForDay(ctx context.Context, stationID, date string, now time.Time) ([]models.SlotBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":   stationID,
		"bookingDate": date,
		"isConfirmed": false,
		"expiresAt":   bson.M{"$gt": now},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching live slot blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.SlotBlock
	for cursor.Next(ctx) {
		var b models.SlotBlock
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding slot block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return blocks, nil
}

// Confirm promotes the block to confirmed in one conditional update.
// The expiry re-check lives inside the filter so a reaper racing this
// call can never leave a confirmed-but-deleted block behind.
func (repo *MongoSlotBlockRepo) Confirm(ctx context.Context, blockID string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":          blockID,
		"isConfirmed": false,
		"expiresAt":   bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"isConfirmed": true}}

	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error confirming slot block %s: %w", blockID, err)
	}
	return res.ModifiedCount == 1, nil
}

// DeleteUnconfirmed removes the block only while it is unconfirmed.
func (repo *MongoSlotBlockRepo) DeleteUnconfirmed(ctx context.Context, blockID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"id": blockID, "isConfirmed": false})
	if err != nil {
		return false, fmt.Errorf("error deleting slot block %s: %w", blockID, err)
	}
	return res.DeletedCount == 1, nil
}

// PurgeExpiredForSlot clears dead blocks for one slot tuple.
func (repo *MongoSlotBlockRepo) PurgeExpiredForSlot(ctx context.Context, stationID, date string, startMinute, endMinute int, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":   stationID,
		"bookingDate": date,
		"startMinute": startMinute,
		"endMinute":   endMinute,
		"isConfirmed": false,
		"expiresAt":   bson.M{"$lte": now},
	}
	if _, err := repo.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("error purging expired blocks: %w", err)
	}
	return nil
}

// ReapExpired deletes every expired unconfirmed block.
func (repo *MongoSlotBlockRepo) ReapExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"isConfirmed": false,
		"expiresAt":   bson.M{"$lt": now},
	}
	res, err := repo.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error reaping expired blocks: %w", err)
	}
	return res.DeletedCount, nil
}
