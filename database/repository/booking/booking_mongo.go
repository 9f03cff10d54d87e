package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"stationbook/database"
	"stationbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var occupyingStatuses = bson.A{
	models.BookingConfirmed,
	models.BookingInProgress,
	models.BookingCompleted,
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

// Insert stores a new booking. The partial unique index on the slot
// tuple rejects a second occupying booking with ErrDuplicateBooking.
func (repo *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// GetByHoldID finds the booking materialized from a slot block.
func (repo *MongoBookingRepo) GetByHoldID(ctx context.Context, holdID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"holdId": holdID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking for hold %s: %w", holdID, err)
	}
	return &booking, nil
}

// OccupiedForDay returns occupying bookings for a station/date.
func (repo *MongoBookingRepo) OccupiedForDay(ctx context.Context, stationID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":   stationID,
		"bookingDate": date,
		"status":      bson.M{"$in": occupyingStatuses},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

// ExistsForSlot reports whether an occupying booking holds the tuple.
func (repo *MongoBookingRepo) ExistsForSlot(ctx context.Context, stationID, date string, startMinute, endMinute int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"stationId":   stationID,
		"bookingDate": date,
		"startMinute": startMinute,
		"endMinute":   endMinute,
		"status":      bson.M{"$in": occupyingStatuses},
	}
	count, err := repo.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error counting bookings: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus moves a booking along its lifecycle.
func (repo *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}
