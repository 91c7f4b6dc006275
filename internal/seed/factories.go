// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Options control how the seeder behaves.
type Options struct {
	// SkipBcrypt stores the demo password as plaintext for faster runs.
	// Logins against such accounts will fail; dev fast mode only.
	SkipBcrypt bool
	// DryRun builds entities and logs them without persisting.
	DryRun bool
	// MaxDays spreads post timestamps over the last N days (default 90).
	MaxDays int
}

// Factory builds domain entities and persists them through the
// repositories. It is a thin helper used by the seeder and tests.
type Factory struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	opts     Options
	rng      *rand.Rand
}

// NewFactory creates a Factory bound to the provided repositories.
func NewFactory(users repository.UserRepository, profiles repository.ProfileRepository, posts repository.PostRepository, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{users: users, profiles: profiles, posts: posts, opts: opts, rng: rng}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:   gofakeit.Name(),
		Email:  gofakeit.Email(),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/200?u=%s", gofakeit.UUID()),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = primitive.NewObjectID()
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Name, user.Email)
		return user, nil
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile constructs and persists a developer profile for the
// given user, with a random mix of experience and education entries.
func (f *Factory) CreateProfile(ctx context.Context, user *models.User, overrides ...func(*models.ProfileUpdate)) (*models.Profile, error) {
	statuses := []string{"Developer", "Senior Developer", "Junior Developer", "Student", "Instructor", "Manager"}

	update := models.ProfileUpdate{
		Status:         statuses[f.rng.Intn(len(statuses))],
		Skills:         f.randomSkills(),
		Company:        ptr(gofakeit.Company()),
		Website:        ptr(gofakeit.URL()),
		Location:       ptr(fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr())),
		Bio:            ptr(gofakeit.Sentence(12)),
		GithubUsername: ptr(gofakeit.Username()),
		Social: models.Social{
			Twitter:  fmt.Sprintf("https://twitter.com/%s", gofakeit.Username()),
			Linkedin: fmt.Sprintf("https://linkedin.com/in/%s", gofakeit.Username()),
		},
	}

	for _, override := range overrides {
		override(&update)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateProfile: user=%s status=%q", user.ID.Hex(), update.Status)
		return &models.Profile{UserID: user.ID, Status: update.Status, Skills: update.Skills}, nil
	}

	profile, err := f.profiles.Upsert(ctx, user.ID, update)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 1+f.rng.Intn(3); i++ {
		if profile, err = f.profiles.PushExperience(ctx, user.ID, f.buildExperience()); err != nil {
			return nil, err
		}
	}
	if f.rng.Intn(2) == 0 {
		if profile, err = f.profiles.PushEducation(ctx, user.ID, f.buildEducation()); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func ptr(s string) *string { return &s }

// CreatePost constructs and persists a post authored by the given user.
// The created-at timestamp is spread over the recent past so feeds look
// lived-in.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)

	post := &models.Post{
		UserID:    user.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Text:      gofakeit.Paragraph(1, 3, 8, " "),
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}

	for _, override := range overrides {
		override(post)
	}

	if f.opts.DryRun {
		post.ID = primitive.NewObjectID()
		log.Printf("[dry-run] CreatePost: user=%s text=%q", user.ID.Hex(), post.Text)
		return post, nil
	}

	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike records a like from user on post. Duplicate likes are
// silently skipped, matching the API's at-most-once rule.
func (f *Factory) CreateLike(ctx context.Context, user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	_, err := f.posts.PushLike(ctx, post.ID, user.ID)
	return err
}

// CreateComment persists a comment from user on post.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Text:      gofakeit.Sentence(8),
		CreatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(&comment)
	}

	if f.opts.DryRun {
		return &comment, nil
	}

	if _, err := f.posts.PushComment(ctx, post.ID, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (f *Factory) randomSkills() []string {
	pool := []string{"Go", "JavaScript", "TypeScript", "Python", "Rust", "React", "Vue", "PostgreSQL", "MongoDB", "Redis", "Docker", "Kubernetes", "AWS", "GraphQL", "HTML", "CSS"}
	f.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := 3 + f.rng.Intn(4)
	skills := make([]string, n)
	copy(skills, pool[:n])
	return skills
}

func (f *Factory) buildExperience() models.Experience {
	from := time.Now().AddDate(-1-f.rng.Intn(5), 0, 0)
	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from.Format("2006-01-02"),
		Current:     f.rng.Intn(3) == 0,
		Description: gofakeit.Sentence(10),
	}
	if !exp.Current {
		exp.To = from.AddDate(0, 6+f.rng.Intn(30), 0).Format("2006-01-02")
	}
	return exp
}

func (f *Factory) buildEducation() models.Education {
	from := time.Now().AddDate(-4-f.rng.Intn(8), 0, 0)
	return models.Education{
		ID:           primitive.NewObjectID(),
		School:       fmt.Sprintf("%s University", gofakeit.City()),
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         from.Format("2006-01-02"),
		To:           from.AddDate(4, 0, 0).Format("2006-01-02"),
		Description:  gofakeit.Sentence(8),
	}
}
