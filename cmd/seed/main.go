// Command seed provisions the demo trainer and clients. It is
// idempotent: existing accounts are left untouched.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"coachtrack/fitness-api/internal/config"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"
	"coachtrack/fitness-api/internal/repository/mongo"

	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "Demo1234!"

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
	mongo.EnsureClientIndexes(ctx, appDB.Collection("client_profiles"))
	mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
	mongo.EnsureCheckInIndexes(ctx, appDB.Collection("checkins"))

	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("FATAL: Failed to hash demo password: %v", err)
	}

	trainer, err := userRepo.GetByEmail(ctx, "trainer@demo.com")
	if errors.Is(err, repository.ErrNotFound) {
		trainer = &domain.User{
			Email:        "trainer@demo.com",
			PasswordHash: string(passwordHash),
			Role:         domain.RoleTrainer,
		}
		if _, err := userRepo.Create(ctx, trainer); err != nil {
			log.Fatalf("FATAL: Failed to create trainer: %v", err)
		}
		log.Println("Created trainer@demo.com")
	} else if err != nil {
		log.Fatalf("FATAL: Failed to look up trainer: %v", err)
	}

	clients := []struct {
		email     string
		firstName string
		lastName  string
	}{
		{"client1@demo.com", "Anna", "Kowalska"},
		{"client2@demo.com", "Jan", "Nowak"},
	}

	for _, c := range clients {
		_, err := userRepo.GetByEmail(ctx, c.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("FATAL: Failed to look up %s: %v", c.email, err)
		}

		user := &domain.User{
			Email:        c.email,
			PasswordHash: string(passwordHash),
			Role:         domain.RoleClient,
		}
		userID, err := userRepo.Create(ctx, user)
		if err != nil {
			log.Fatalf("FATAL: Failed to create %s: %v", c.email, err)
		}

		profile := &domain.ClientProfile{
			UserID:    userID,
			TrainerID: trainer.ID,
			Email:     c.email,
			FirstName: c.firstName,
			LastName:  c.lastName,
		}
		if _, err := clientRepo.Create(ctx, profile); err != nil {
			log.Fatalf("FATAL: Failed to create profile for %s: %v", c.email, err)
		}
		log.Printf("Created %s", c.email)
	}

	log.Println("Seed complete.")
}
