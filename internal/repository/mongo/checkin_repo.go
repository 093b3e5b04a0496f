package mongo

import (
	"context"
	"errors"
	"time"

	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInCollectionName = "checkins"

// mongoCheckInRepository implements repository.CheckInRepository using MongoDB.
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new check-in repository.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create inserts a new check-in. The unique (clientId, date) index turns
// a duplicate insert into repository.ErrConflict.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID || checkIn.Date.IsZero() {
		return primitive.NilObjectID, errors.New("check-in requires clientId and date")
	}

	checkIn.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	checkIn.CreatedAt = now
	checkIn.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted check-in ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single check-in by its ID.
func (r *mongoCheckInRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CheckIn, error) {
	var checkIn domain.CheckIn
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&checkIn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &checkIn, nil
}

// ListByClientID retrieves all check-ins for a client, newest date first.
func (r *mongoCheckInRepository) ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	checkIns := []domain.CheckIn{}
	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// Update rewrites the check-in's mutable fields. Moving a check-in onto a
// date already taken by the same client yields repository.ErrConflict.
func (r *mongoCheckInRepository) Update(ctx context.Context, checkIn *domain.CheckIn) error {
	if checkIn.ID == primitive.NilObjectID {
		return errors.New("check-in ID is required for update")
	}

	filter := bson.M{"_id": checkIn.ID}
	update := bson.M{
		"$set": bson.M{
			"date":      checkIn.Date,
			"weightKg":  checkIn.WeightKg,
			"waistCm":   checkIn.WaistCm,
			"notes":     checkIn.Notes,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetPhotoKey stores the S3 object key of the check-in's progress photo.
func (r *mongoCheckInRepository) SetPhotoKey(ctx context.Context, id primitive.ObjectID, photoKey string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"photoKey":  photoKey,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a check-in.
func (r *mongoCheckInRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCheckInIndexes creates necessary indexes. The compound unique
// index enforces one check-in per client per calendar date.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
