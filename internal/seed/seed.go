package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Seed populates the database with demo authors, groups and posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database: %d users, %d groups, %d posts", opts.NumUsers, opts.NumGroups, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := factory.CreateGroup()
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		groups = append(groups, group)
	}
	log.Printf("Created %d groups", len(groups))

	if len(users) == 0 {
		return nil
	}

	// Roughly a third of posts go out ungrouped, like real feeds do.
	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		user := users[factory.rng.Intn(len(users))]
		var group *models.Group
		if len(groups) > 0 && factory.rng.Intn(3) != 0 {
			group = groups[factory.rng.Intn(len(groups))]
		}
		posts = append(posts, factory.BuildPost(user, group))
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	return nil
}

func clearData(db *gorm.DB) error {
	// Posts reference both users and groups, so they go first.
	for _, table := range []string{"posts", "groups", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
