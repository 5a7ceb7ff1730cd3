// Command main populates the database with fake users, groups, and
// posts for local development.
package main

import (
	"flag"
	"log"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numGroups := flag.Int("groups", 5, "Number of groups to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("days", 90, "Spread post dates over this many past days")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d groups, %d posts, clean=%v\n",
		*numUsers, *numGroups, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumGroups:   *numGroups,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		MaxDays:     *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All seeded users have the password: password123")
}
