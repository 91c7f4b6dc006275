package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePostHandler(t *testing.T) {
	author := &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Test User",
		Avatar: "https://example.com/a.png",
	}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil)
		postRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		s := newTestServer(userRepo, new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Post("/api/posts", withUser(author.ID.Hex()), s.CreatePost)

		body, _ := json.Marshal(map[string]string{"text": "hello"})
		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Empty Text", func(t *testing.T) {
		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), new(MockPostRepository))
		app := fiber.New()
		app.Post("/api/posts", withUser(author.ID.Hex()), s.CreatePost)

		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader([]byte(`{"text":""}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePostHandler(t *testing.T) {
	owner := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	post := &models.Post{ID: postID, UserID: owner}

	tests := []struct {
		name           string
		requester      string
		mockSetup      func(repo *MockPostRepository)
		expectedStatus int
	}{
		{
			name:      "Author Deletes",
			requester: owner.Hex(),
			mockSetup: func(repo *MockPostRepository) {
				repo.On("GetByID", mock.Anything, postID).Return(post, nil)
				repo.On("Delete", mock.Anything, postID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Stranger Forbidden",
			requester: primitive.NewObjectID().Hex(),
			mockSetup: func(repo *MockPostRepository) {
				repo.On("GetByID", mock.Anything, postID).Return(post, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "Missing Post",
			requester: primitive.NewObjectID().Hex(),
			mockSetup: func(repo *MockPostRepository) {
				repo.On("GetByID", mock.Anything, postID).
					Return(nil, models.NewNotFoundError("post not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := new(MockPostRepository)
			tt.mockSetup(postRepo)

			s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
			app := fiber.New()
			app.Delete("/api/posts/:id", withUser(tt.requester), s.DeletePost)

			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/"+postID.Hex(), nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLikePostHandler(t *testing.T) {
	postID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("Returns Likes List", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("PushLike", mock.Anything, postID, userID).Return(true, nil)
		postRepo.On("GetByID", mock.Anything, postID).
			Return(&models.Post{ID: postID, Likes: []models.Like{{UserID: userID}}}, nil)

		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Put("/api/posts/like/:id", withUser(userID.Hex()), s.LikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/posts/like/"+postID.Hex(), nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var likes []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&likes))
		assert.Len(t, likes, 1)
	})

	t.Run("Double Like Conflicts", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("PushLike", mock.Anything, postID, userID).Return(false, nil)
		postRepo.On("GetByID", mock.Anything, postID).
			Return(&models.Post{ID: postID, Likes: []models.Like{{UserID: userID}}}, nil)

		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Put("/api/posts/like/:id", withUser(userID.Hex()), s.LikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/posts/like/"+postID.Hex(), nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestUnlikePostHandler(t *testing.T) {
	postID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	t.Run("Never Liked Conflicts", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("PullLike", mock.Anything, postID, userID).Return(false, nil)
		postRepo.On("GetByID", mock.Anything, postID).Return(&models.Post{ID: postID}, nil)

		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Put("/api/posts/unlike/:id", withUser(userID.Hex()), s.UnlikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/posts/unlike/"+postID.Hex(), nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestAddCommentHandler(t *testing.T) {
	postID := primitive.NewObjectID()
	commenter := &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Test User",
		Avatar: "https://example.com/a.png",
	}

	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)
	userRepo.On("GetByID", mock.Anything, commenter.ID).Return(commenter, nil)
	postRepo.On("PushComment", mock.Anything, postID, mock.Anything).Return(&models.Post{
		ID:       postID,
		Comments: []models.Comment{{UserID: commenter.ID, Text: "nice"}},
	}, nil)

	s := newTestServer(userRepo, new(MockProfileRepository), postRepo)
	app := fiber.New()
	app.Post("/api/posts/comment/:id", withUser(commenter.ID.Hex()), s.AddComment)

	body, _ := json.Marshal(map[string]string{"text": "nice"})
	req := httptest.NewRequest(http.MethodPost, "/api/posts/comment/"+postID.Hex(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	assert.Len(t, comments, 1)
}

func TestRemoveCommentHandler(t *testing.T) {
	postID := primitive.NewObjectID()
	author := primitive.NewObjectID()
	comment := models.Comment{ID: primitive.NewObjectID(), UserID: author, Text: "mine"}
	post := &models.Post{ID: postID, Comments: []models.Comment{comment}}

	t.Run("Author Removes", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)
		postRepo.On("PullComment", mock.Anything, postID, comment.ID).
			Return(&models.Post{ID: postID, Comments: []models.Comment{}}, nil)

		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Delete("/api/posts/comment/:id/:commentId", withUser(author.Hex()), s.RemoveComment)

		url := "/api/posts/comment/" + postID.Hex() + "/" + comment.ID.Hex()
		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, url, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unknown Comment", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("GetByID", mock.Anything, postID).Return(post, nil)

		s := newTestServer(new(MockUserRepository), new(MockProfileRepository), postRepo)
		app := fiber.New()
		app.Delete("/api/posts/comment/:id/:commentId", withUser(author.Hex()), s.RemoveComment)

		url := "/api/posts/comment/" + postID.Hex() + "/" + primitive.NewObjectID().Hex()
		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, url, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
