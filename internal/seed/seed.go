package seed

import (
	"context"
	"fmt"
	"log"

	"devhub/internal/database"
	"devhub/internal/models"
	"devhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Seeder populates the document store with realistic demo data: users
// with profiles, posts, and an engagement mesh of likes and comments.
type Seeder struct {
	db      *mongo.Database
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder over the given database.
func NewSeeder(db *mongo.Database, opts Options) *Seeder {
	return &Seeder{
		db: db,
		factory: NewFactory(
			repository.NewUserRepository(db),
			repository.NewProfileRepository(db),
			repository.NewPostRepository(db),
			opts,
		),
		opts: opts,
	}
}

// ClearAll drops all seeded collections. Destructive; never run against
// a production database.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, name := range []string{database.PostsCollection, database.ProfilesCollection, database.UsersCollection} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	log.Println("✓ Existing data cleared")
	return nil
}

// SeedCommunity creates numUsers accounts, most with a developer
// profile attached, and returns them for engagement seeding.
func (s *Seeder) SeedCommunity(ctx context.Context, numUsers int) ([]*models.User, error) {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)

		// roughly four in five users fill out a profile
		if s.factory.rng.Intn(5) != 0 {
			if _, err := s.factory.CreateProfile(ctx, user); err != nil {
				return nil, fmt.Errorf("create profile for %s: %w", user.ID.Hex(), err)
			}
		}
	}
	log.Printf("✓ %d users created", len(users))
	return users, nil
}

// SeedEngagement creates numPosts posts across the given users, then
// scatters likes and comments over them.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, numPosts int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to seed posts for")
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(ctx, author)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("✓ %d posts created", len(posts))

	var likes, comments int
	for _, post := range posts {
		for _, user := range users {
			switch s.factory.rng.Intn(10) {
			case 0, 1, 2:
				if err := s.factory.CreateLike(ctx, user, post); err != nil {
					return fmt.Errorf("create like: %w", err)
				}
				likes++
			case 3:
				if _, err := s.factory.CreateComment(ctx, user, post); err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				comments++
			}
		}
	}
	log.Printf("✓ %d likes and %d comments created", likes, comments)
	return nil
}
