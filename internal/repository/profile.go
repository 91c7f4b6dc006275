package repository

import (
	"context"
	"errors"
	"time"

	"devhub/internal/cache"
	"devhub/internal/database"
	"devhub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository defines the interface for profile aggregate operations.
// Embedded list mutations are expressed as atomic array updates so two
// concurrent mutations of the same document cannot overwrite each other.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Upsert(ctx context.Context, userID primitive.ObjectID, update models.ProfileUpdate) (*models.Profile, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
	PushExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (*models.Profile, error)
	PullExperience(ctx context.Context, userID, expID primitive.ObjectID) (*models.Profile, error)
	PushEducation(ctx context.Context, userID primitive.ObjectID, edu models.Education) (*models.Profile, error)
	PullEducation(ctx context.Context, userID, eduID primitive.ObjectID) (*models.Profile, error)
}

type profileRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

// NewProfileRepository creates a mongo-backed profile repository.
func NewProfileRepository(db *mongo.Database) ProfileRepository {
	return &profileRepository{
		coll:  db.Collection(database.ProfilesCollection),
		users: db.Collection(database.UsersCollection),
	}
}

var errNoProfile = models.NewNotFoundError("there is no profile for this user")

func (r *profileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID.Hex()), &profile, cache.ProfileTTL, func() error {
		if err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&profile); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return errNoProfile
			}
			return models.NewInternalError(err)
		}
		return r.populateOwners(ctx, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := cache.Aside(ctx, cache.ProfilesListKey(), &profiles, cache.ProfileTTL, func() error {
		cursor, err := r.coll.Find(ctx, bson.M{})
		if err != nil {
			return models.NewInternalError(err)
		}
		if err := cursor.All(ctx, &profiles); err != nil {
			return models.NewInternalError(err)
		}
		if profiles == nil {
			profiles = []*models.Profile{}
		}
		return r.populateOwners(ctx, profiles...)
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// upsertUpdate builds the update document applied by Upsert: supplied
// optional fields land in $set, omitted ones never appear, and the
// embedded lists are initialized only when the document is created.
func upsertUpdate(userID primitive.ObjectID, update models.ProfileUpdate, now time.Time) bson.M {
	set := bson.M{
		"user":      userID,
		"status":    update.Status,
		"skills":    update.Skills,
		"social":    update.Social,
		"updatedAt": now,
	}
	if update.Company != nil {
		set["company"] = *update.Company
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.GithubUsername != nil {
		set["githubusername"] = *update.GithubUsername
	}

	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"experience": []models.Experience{},
			"education":  []models.Education{},
		},
	}
}

// Upsert applies a sparse field set: supplied optional fields are written,
// omitted ones are left untouched on update. Repeated calls with the same
// input converge to the same document.
func (r *profileRepository) Upsert(ctx context.Context, userID primitive.ObjectID, update models.ProfileUpdate) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": userID},
		upsertUpdate(userID, update, time.Now().UTC()), opts).Decode(&profile)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, userID.Hex())
	if err := r.populateOwners(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Delete(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, userID.Hex())
	return nil
}

// PushExperience front-inserts an entry into the owning profile's
// experience list as a single atomic array update.
func (r *profileRepository) PushExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (*models.Profile, error) {
	return r.pushEntry(ctx, userID, "experience", exp)
}

// PullExperience removes the entry with the given embedded id. Removing
// an id that does not exist is a no-op that still returns the profile.
func (r *profileRepository) PullExperience(ctx context.Context, userID, expID primitive.ObjectID) (*models.Profile, error) {
	return r.pullEntry(ctx, userID, "experience", expID)
}

func (r *profileRepository) PushEducation(ctx context.Context, userID primitive.ObjectID, edu models.Education) (*models.Profile, error) {
	return r.pushEntry(ctx, userID, "education", edu)
}

func (r *profileRepository) PullEducation(ctx context.Context, userID, eduID primitive.ObjectID) (*models.Profile, error) {
	return r.pullEntry(ctx, userID, "education", eduID)
}

// entryPushUpdate front-inserts an entry into an embedded list: the
// $position 0 is the most-recent-first invariant of both lists.
func entryPushUpdate(field string, entry any, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
		"$set":  bson.M{"updatedAt": now},
	}
}

// entryPullUpdate removes the embedded entry with the given id; an
// unknown id matches nothing, which is the no-op removal behavior.
func entryPullUpdate(field string, entryID primitive.ObjectID, now time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{field: bson.M{"_id": entryID}},
		"$set":  bson.M{"updatedAt": now},
	}
}

func (r *profileRepository) pushEntry(ctx context.Context, userID primitive.ObjectID, field string, entry any) (*models.Profile, error) {
	return r.findAndUpdate(ctx, userID, entryPushUpdate(field, entry, time.Now().UTC()))
}

func (r *profileRepository) pullEntry(ctx context.Context, userID primitive.ObjectID, field string, entryID primitive.ObjectID) (*models.Profile, error) {
	return r.findAndUpdate(ctx, userID, entryPullUpdate(field, entryID, time.Now().UTC()))
}

func (r *profileRepository) findAndUpdate(ctx context.Context, userID primitive.ObjectID, update bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errNoProfile
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, userID.Hex())
	if err := r.populateOwners(ctx, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// populateOwners joins each profile with its owner's name and avatar,
// one $in query for the whole batch.
func (r *profileRepository) populateOwners(ctx context.Context, profiles ...*models.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return models.NewInternalError(err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return models.NewInternalError(err)
	}

	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, p := range profiles {
		if u, ok := byID[p.UserID]; ok {
			p.Owner = &models.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
		}
	}
	return nil
}
