package stationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stationbook/database"
	"stationbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrStationNotFound is returned when no station matches the given id.
var ErrStationNotFound = errors.New("station not found")

// MongoStationRepo implements StationRepository using MongoDB.
type MongoStationRepo struct {
	coll *mongo.Collection
}

// NewMongoStationRepo constructs a new instance of MongoStationRepo.
func NewMongoStationRepo() StationRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoStationRepo{coll: db.Collection("stations")}
}

// GetByID retrieves a station document by ID.
func (repo *MongoStationRepo) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var station models.Station
	filter := bson.M{"id": stationID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&station); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("error fetching station with id %s: %w", stationID, err)
	}
	return &station, nil
}

// ListActive retrieves all stations currently open for booking.
func (repo *MongoStationRepo) ListActive(ctx context.Context) ([]models.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("error listing stations: %w", err)
	}
	defer cursor.Close(ctx)

	var stations []models.Station
	for cursor.Next(ctx) {
		var s models.Station
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding station: %w", err)
		}
		stations = append(stations, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return stations, nil
}
