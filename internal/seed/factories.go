// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a plain password instead of hashing it. Only
	// useful to speed up large local seeds; such accounts cannot log in.
	SkipBcrypt bool
	// MaxDays bounds how far back generated publication dates spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// CreateUser constructs and persists a sample author account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: sanitizeUsername(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup constructs and persists a sample topic group.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	noun := gofakeit.NounAbstract()
	group := &models.Group{
		Title:       capitalize(noun),
		Slug:        fmt.Sprintf("%s-%d", slugify(noun), gofakeit.Number(10, 9999)),
		Description: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// BuildPost constructs a post without persisting it, useful for
// batching. Publication dates spread backwards over opts.MaxDays so the
// feed looks lived-in.
func (f *Factory) BuildPost(user *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Text:   gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID: user.ID,
	}
	if group != nil {
		gid := group.ID
		post.GroupID = &gid
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() < 3 {
		log.Printf("seed: generated username %q too short, padding", s)
		return b.String() + "user"
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
