// Command main runs the database seeder for the lost & found board.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/database"
	"lostfound/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of regular users to create")
	numItems := flag.Int("items", 40, "Number of items to create")
	claimsPerItem := flag.Int("claims", 2, "Pending claims per item")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "Apply a YAML fixture instead of generated data")
	seedValue := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	flag.Parse()

	if *seedValue == 0 {
		*seedValue = time.Now().UnixNano()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var res *seed.Result
	if *fixture != "" {
		log.Printf("Applying fixture %s", *fixture)
		fx, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		res, err = s.ApplyFixture(ctx, fx)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d items, %d claims per item, seed=%d",
			*numUsers, *numItems, *claimsPerItem, *seedValue)
		res, err = s.Run(ctx, seed.Options{
			NumUsers:      *numUsers,
			NumItems:      *numItems,
			ClaimsPerItem: *claimsPerItem,
			Seed:          *seedValue,
		})
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Created %d users, %d items, %d claims, %d comments",
		res.Users, res.Items, res.Claims, res.Comments)
	log.Printf("Accounts without an explicit password use: %s", seed.DefaultPassword)
}
