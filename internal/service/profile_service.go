// Package service implements the aggregate managers: the business rules
// for profiles and posts, independent of transport.
package service

import (
	"context"

	"devhub/internal/models"
	"devhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService owns creation, mutation and reads of profile documents
// and their embedded experience/education lists.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

// UpsertProfileInput carries the sparse profile field set from a request.
// Status and Skills are required; nil pointers mean "not supplied".
type UpsertProfileInput struct {
	Status         string
	Skills         []string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	Social         models.Social
}

// ExperienceInput holds a new work-history entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

// EducationInput holds a new schooling entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

// NewProfileService creates a ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo}
}

// parseID collapses a malformed identifier into the same not-found
// outcome as a missing document; a bad id is never a server fault.
func parseID(hex, message string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.NewNotFoundError(message)
	}
	return id, nil
}

// GetOwn returns the caller's profile joined with the owner's name and
// avatar. A missing profile is an expected non-fatal outcome.
func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*models.Profile, error) {
	return s.GetByUserID(ctx, userID)
}

// GetByUserID returns any user's profile, unauthenticated.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, uid)
}

// List returns all profiles, each joined with the owner's name and avatar.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// Upsert creates the caller's profile on first call and mutates the same
// document on subsequent calls. Repeated calls with identical input
// converge to the same state.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in UpsertProfileInput) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		return nil, models.NewValidationError("status is required")
	}
	if len(in.Skills) == 0 {
		return nil, models.NewValidationError("skills is required")
	}

	return s.profileRepo.Upsert(ctx, uid, models.ProfileUpdate{
		Status:         in.Status,
		Skills:         in.Skills,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social:         in.Social,
	})
}

// DeleteOwn removes the caller's profile and then the user account.
// The two deletes are sequential, not transactional: a failure between
// them leaves a user without a profile, which readers already tolerate
// as an ordinary not-found.
func (s *ProfileService) DeleteOwn(ctx context.Context, userID string) error {
	uid, err := parseID(userID, "user not found")
	if err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, uid); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, uid)
}

// AddExperience front-inserts a work-history entry into the caller's
// profile; the most recently added entry is always first.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.profileRepo.PushExperience(ctx, uid, exp)
}

// RemoveExperience removes the entry with the given id. An unknown id is
// a no-op that still persists (and returns) the unchanged profile.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	eid, err := parseID(expID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	return s.profileRepo.PullExperience(ctx, uid, eid)
}

// AddEducation front-inserts a schooling entry, symmetric to AddExperience.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.profileRepo.PushEducation(ctx, uid, edu)
}

// RemoveEducation removes the entry with the given id, symmetric to
// RemoveExperience.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	uid, err := parseID(userID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	eid, err := parseID(eduID, "there is no profile for this user")
	if err != nil {
		return nil, err
	}
	return s.profileRepo.PullEducation(ctx, uid, eid)
}
