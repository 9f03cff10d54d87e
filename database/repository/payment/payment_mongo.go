package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoPaymentRepo{coll: db.Collection("payments")}
}

// Insert stores a new PENDING transaction. The unique index on
// transactionId turns retried initiations into ErrDuplicateTransaction.
func (repo *MongoPaymentRepo) Insert(ctx context.Context, txn *models.PaymentTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, txn); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("error inserting payment transaction: %w", err)
	}
	return nil
}

// GetByTransactionID retrieves a transaction by its merchant id.
func (repo *MongoPaymentRepo) GetByTransactionID(ctx context.Context, txnID string) (*models.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var txn models.PaymentTransaction
	if err := repo.coll.FindOne(ctx, bson.M{"transactionId": txnID}).Decode(&txn); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("error fetching transaction %s: %w", txnID, err)
	}
	return &txn, nil
}

// MarkTerminal performs the PENDING -> terminal transition as one
// conditional update. A transaction that already left PENDING matches
// nothing, so the losing side of a webhook/poll race observes false.
func (repo *MongoPaymentRepo) MarkTerminal(ctx context.Context, txnID string, status models.PaymentStatus, unfulfillable bool, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"transactionId": txnID,
		"status":        models.PaymentPending,
	}
	set := bson.M{
		"status":    status,
		"updatedAt": now,
	}
	if unfulfillable {
		set["unfulfillable"] = true
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating transaction %s: %w", txnID, err)
	}
	return res.ModifiedCount == 1, nil
}

// IncrementPollAttempts bumps the failed-poll counter.
func (repo *MongoPaymentRepo) IncrementPollAttempts(ctx context.Context, txnID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var txn models.PaymentTransaction
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.M{"transactionId": txnID},
		bson.M{"$inc": bson.M{"pollAttempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&txn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrTransactionNotFound
		}
		return 0, fmt.Errorf("error bumping poll attempts for %s: %w", txnID, err)
	}
	return txn.PollAttempts, nil
}

// EnsureIndexes creates the necessary indexes on the payments collection.
func (repo *MongoPaymentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_transaction_id"),
		},
		{
			Keys:    bson.D{{Key: "holdId", Value: 1}},
			Options: options.Index().SetName("hold_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("status_created_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create payments indexes: %w", err)
	}
	return nil
}
