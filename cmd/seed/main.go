// seed inserts a development admin login for local testing.
// Idempotent: skips inserts if the admin account (admin@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	accountdomain "admin-console/api/internal/account/domain"
	accountrepo "admin-console/api/internal/account/repository"
	"admin-console/api/internal/config"
	"admin-console/api/internal/db"
	"admin-console/api/internal/security"
	userdomain "admin-console/api/internal/user/domain"
	userrepo "admin-console/api/internal/user/repository"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "password123"
	adminName     = "Dev Admin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := context.Background()
	accounts := accountrepo.NewPostgresRepository(database)
	users := userrepo.NewPostgresRepository(database)

	exists, err := accounts.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed: check admin account: %v", err)
	}
	if exists {
		log.Printf("seed: %s already exists, nothing to do", adminEmail)
		return
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(adminPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		ID:        uuid.New().String(),
		Name:      adminName,
		Role:      userdomain.RoleAdmin,
		Type:      "INDIVIDUAL",
		Status:    userdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("seed: create user: %v", err)
	}

	account := &accountdomain.Account{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Name:      adminName,
		Email:     adminEmail,
		Hash:      hash,
		Role:      accountdomain.RoleOwner,
		Status:    accountdomain.StatusActive,
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := accounts.Create(ctx, account); err != nil {
		log.Fatalf("seed: create account: %v", err)
	}

	log.Printf("seed: created %s (password %q)", adminEmail, adminPassword)
}
