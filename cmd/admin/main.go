// Package main provides account management utilities for the lost & found board.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"lostfound/internal/cache"
	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/repository"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin set-role <user_id> <USER|MODERATOR|ADMIN>  - Assign a role")
	fmt.Println("  go run ./cmd/admin list-staff                                - List moderators and admins")
	fmt.Println("  go run ./cmd/admin token <user_id> [ttl]                     - Mint a development bearer token")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	cache.InitRedis(cfg.RedisURL)
	store := repository.NewStore(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "set-role":
		if len(os.Args) < 4 {
			usage()
			os.Exit(1)
		}
		setRole(ctx, store, os.Args[2], os.Args[3])
	case "list-staff":
		listStaff(ctx, store)
	case "token":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		ttl := 24 * time.Hour
		if len(os.Args) > 3 {
			if ttl, err = time.ParseDuration(os.Args[3]); err != nil {
				log.Fatalf("Invalid ttl %q: %v", os.Args[3], err)
			}
		}
		mintToken(ctx, cfg, store, os.Args[2], ttl)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func loadUser(ctx context.Context, store *repository.Store, rawID string) *models.User {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		log.Fatalf("Invalid user ID %q", rawID)
	}
	user, err := store.Users.GetByID(ctx, uint(id))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			fmt.Printf("User with ID %s not found\n", rawID)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}
	return user
}

// setRole bypasses the moderation service on purpose: it is how the first
// admin of a fresh deployment gets created. No audit row is written.
func setRole(ctx context.Context, store *repository.Store, rawID, rawRole string) {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		log.Fatalf("%v", err)
	}
	user := loadUser(ctx, store, rawID)
	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return
	}

	if err := store.Users.Update(ctx, user.ID, map[string]any{"role": role}); err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	cache.InvalidateUser(ctx, user.ID)
	fmt.Printf("Changed %s (ID: %d) from %s to %s\n", user.Username, user.ID, user.Role, role)
}

func listStaff(ctx context.Context, store *repository.Store) {
	staff, err := store.Users.ListByRoles(ctx, models.RoleAdmin, models.RoleModerator)
	if err != nil {
		log.Fatalf("Failed to fetch staff: %v", err)
	}
	if len(staff) == 0 {
		fmt.Println("No staff accounts found")
		return
	}

	fmt.Println("─────────────────────────────────────")
	for _, u := range staff {
		state := "active"
		if !u.IsActive {
			state = "suspended"
		}
		fmt.Printf("ID: %d | %-9s | %s | %s | %s\n", u.ID, u.Role, u.Username, u.Email, state)
	}
	fmt.Println("─────────────────────────────────────")
}

func mintToken(ctx context.Context, cfg *config.Config, store *repository.Store, rawID string, ttl time.Duration) {
	if cfg.IsProduction() {
		log.Fatal("Refusing to mint tokens in production")
	}
	user := loadUser(ctx, store, rawID)
	token, err := middleware.NewTokenVerifier(cfg).Issue(user.ID, ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
