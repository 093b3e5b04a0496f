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

const clientCollectionName = "client_profiles"

// mongoClientRepository implements repository.ClientRepository using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new client profile repository.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client profile.
func (r *mongoClientRepository) Create(ctx context.Context, profile *domain.ClientProfile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID || profile.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client profile requires userId and trainerId")
	}

	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single client profile by its ID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ListAll retrieves every client profile (admin listing).
func (r *mongoClientRepository) ListAll(ctx context.Context) ([]domain.ClientProfile, error) {
	return r.list(ctx, bson.M{})
}

// ListByTrainerID retrieves the client profiles owned by a trainer.
func (r *mongoClientRepository) ListByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.ClientProfile, error) {
	return r.list(ctx, bson.M{"trainerId": trainerID})
}

func (r *mongoClientRepository) list(ctx context.Context, filter bson.M) ([]domain.ClientProfile, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := []domain.ClientProfile{}
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Update sets the profile's mutable fields and returns the updated
// document. Email here is the denormalized copy; the authoritative value
// on the User is updated in the same transaction by the service layer.
func (r *mongoClientRepository) Update(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*domain.ClientProfile, error) {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"firstName": firstName,
			"lastName":  lastName,
			"email":     email,
			"updatedAt": time.Now().UTC(),
		},
	}

	var profile domain.ClientProfile
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// EnsureClientIndexes creates necessary indexes. Call during startup.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
