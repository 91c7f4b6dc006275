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

// PostRepository defines the interface for post aggregate operations.
// Likes and comments are mutated with filtered atomic array updates:
// the filter carries the invariant (e.g. "not already liked") so the
// check and the write happen in one store round trip.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	PullLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	PushComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error)
	PullComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error)
}

type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a mongo-backed post repository.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection(database.PostsCollection)}
}

var errPostNotFound = models.NewNotFoundError("post not found")

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID.Hex())
	return nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.PostsListKey(), &posts, cache.PostTTL, func() error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := r.coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return models.NewInternalError(err)
		}
		if err := cursor.All(ctx, &posts); err != nil {
			return models.NewInternalError(err)
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id.Hex()), &post, cache.PostTTL, func() error {
		if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return errPostNotFound
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id.Hex())
	return nil
}

// likePushFilter matches the post only while the user's like is absent;
// the at-most-one-like rule lives in this filter, not in application
// code, so two concurrent likes cannot both land.
func likePushFilter(postID, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}}
}

func likePushUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$push": bson.M{"likes": bson.M{"$each": bson.A{models.Like{UserID: userID}}, "$position": 0}},
	}
}

func likePullFilter(postID, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": postID, "likes.user": userID}
}

func likePullUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}}
}

func commentPushUpdate(comment models.Comment) bson.M {
	return bson.M{
		"$push": bson.M{"comments": bson.M{"$each": bson.A{comment}, "$position": 0}},
	}
}

// commentPullUpdate removes exactly the comment with the given embedded
// id, never the author's first comment.
func commentPullUpdate(commentID primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
}

// PushLike front-inserts a like if and only if the user has not liked the
// post yet. Returns false when the filter did not match, which callers
// disambiguate (missing post vs. already liked) with a follow-up read.
func (r *postRepository) PushLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, likePushFilter(postID, userID), likePushUpdate(userID))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID.Hex())
	return res.ModifiedCount > 0, nil
}

// PullLike removes the user's like if present. Returns false when the
// user had not liked the post.
func (r *postRepository) PullLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, likePullFilter(postID, userID), likePullUpdate(userID))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID.Hex())
	return res.ModifiedCount > 0, nil
}

func (r *postRepository) PushComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return r.findAndUpdate(ctx, postID, commentPushUpdate(comment))
}

// PullComment removes exactly the comment with the given embedded id.
func (r *postRepository) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	return r.findAndUpdate(ctx, postID, commentPullUpdate(commentID))
}

func (r *postRepository) findAndUpdate(ctx context.Context, postID primitive.ObjectID, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidatePost(ctx, postID.Hex())
	return &post, nil
}
