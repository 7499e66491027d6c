package admin

import (
	"context"
	"log"
	"os"
	"time"

	"souq/auth"
	"souq/models"
	"souq/utils"
)

// SeedAdmin creates the default admin account if none exists for the
// configured email. It is an explicit deployment step (run with -seed-admin),
// not an implicit startup side effect, and is idempotent.
func SeedAdmin(ctx context.Context) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@souq.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("ADMIN_PASSWORD not set; seeding with the default password, change it")
	}

	existing, err := auth.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("admin account %s already exists, nothing to seed", email)
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	account := models.User{
		UserID:    "u" + utils.GenerateID(10),
		Username:  "admin",
		Password:  hashed,
		Email:     email,
		FullName:  "Admin",
		IsAdmin:   true,
		CreatedAt: time.Now(),
	}
	if err := auth.CreateUser(ctx, &account); err != nil {
		return err
	}

	log.Printf("seeded admin account %s", email)
	return nil
}
