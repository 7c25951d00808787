package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/permauto/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SeedAdminUser makes sure the bootstrap admin account exists. With
// ADMIN_RESET_PASSWORD=true an existing account gets its password rehashed
// from ADMIN_PASSWORD, which is the recovery path when the admin locks
// themselves out.
func SeedAdminUser(ctx context.Context, usersCol *mongo.Collection) error {
	email := NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	pass := os.Getenv("ADMIN_PASSWORD")

	if email == "" || pass == "" {
		return fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()

	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Administrador",
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleAdmin,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		log.Println("Admin user seeded:", email)
		return nil
	}

	if os.Getenv("ADMIN_RESET_PASSWORD") == "true" {
		_, err := usersCol.UpdateOne(ctx, filter, bson.M{
			"$set": bson.M{
				"passwordHash": hash,
				"role":         models.RoleAdmin,
				"updatedAt":    now,
			},
		})
		if err != nil {
			return fmt.Errorf("reset admin password: %w", err)
		}
		log.Println("Admin password reset:", email)
		return nil
	}

	log.Println("Admin user already exists:", email)
	return nil
}
