package service

import (
	"context"
	"time"

	"devhub/internal/models"
	"devhub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func now() time.Time {
	return time.Now().UTC()
}

// PostService owns creation, reads and mutation of post documents and
// their embedded likes/comments lists.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService creates a PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Create publishes a post, snapshotting the author's current name and
// avatar into the document.
func (s *PostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	if text == "" {
		return nil, models.NewValidationError("text is required")
	}
	uid, err := parseID(userID, "user not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   text,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// Get returns a post by id. A malformed id and a missing post collapse
// into the same not-found outcome.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, pid)
}

// Delete removes a post. Existence is confirmed strictly before the
// authorship check: deleting a missing post is not-found, never an
// authorization failure.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, pid)
	if err != nil {
		return err
	}
	if post.UserID.Hex() != requesterID {
		return models.NewUnauthorizedError("user not authorized")
	}

	return s.postRepo.Delete(ctx, pid)
}

// Like adds the user to the post's likes; a user likes a post at most
// once. The check and the insert are a single filtered store update, so
// two concurrent likes by the same user cannot both land.
func (s *PostService) Like(ctx context.Context, postID, userID string) ([]models.Like, error) {
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return nil, err
	}
	uid, err := parseID(userID, "user not found")
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.PushLike(ctx, pid, uid)
	if err != nil {
		return nil, err
	}
	if !liked {
		// The filter did not match: either the post is gone or the user
		// already liked it. A follow-up read disambiguates.
		if _, err := s.postRepo.GetByID(ctx, pid); err != nil {
			return nil, err
		}
		return nil, models.NewConflictError("post already liked")
	}

	post, err := s.postRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike removes the user's like; unliking a post the user never liked
// is a conflict and leaves the likes list unchanged.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) ([]models.Like, error) {
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return nil, err
	}
	uid, err := parseID(userID, "user not found")
	if err != nil {
		return nil, err
	}

	removed, err := s.postRepo.PullLike(ctx, pid, uid)
	if err != nil {
		return nil, err
	}
	if !removed {
		if _, err := s.postRepo.GetByID(ctx, pid); err != nil {
			return nil, err
		}
		return nil, models.NewConflictError("post has not yet been liked")
	}

	post, err := s.postRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment front-inserts a comment with the commenter's name/avatar
// snapshot; the newest comment is always first.
func (s *PostService) AddComment(ctx context.Context, postID, userID, text string) ([]models.Comment, error) {
	if text == "" {
		return nil, models.NewValidationError("text is required")
	}
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return nil, err
	}
	uid, err := parseID(userID, "user not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     primitive.NewObjectID(),
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   text,
	}
	comment.CreatedAt = now()

	post, err := s.postRepo.PushComment(ctx, pid, comment)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes exactly the comment with the given id after
// verifying the requester authored it. Lookup is by comment id; the
// deletion targets that same id, not the first comment by the author.
func (s *PostService) RemoveComment(ctx context.Context, postID, commentID, requesterID string) ([]models.Comment, error) {
	pid, err := parseID(postID, "post not found")
	if err != nil {
		return nil, err
	}
	cid, err := parseID(commentID, "comment does not exist")
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == cid {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, models.NewNotFoundError("comment does not exist")
	}
	if comment.UserID.Hex() != requesterID {
		return nil, models.NewUnauthorizedError("user not authorized")
	}

	updated, err := s.postRepo.PullComment(ctx, pid, cid)
	if err != nil {
		return nil, err
	}
	return updated.Comments, nil
}
