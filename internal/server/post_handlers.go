package server

import (
	"devhub/internal/models"
	"devhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	v := validation.New()
	v.Require("text", req.Text, "text is required")
	if errs := v.Errors(); len(errs) > 0 {
		return respondValidationErrors(c, errs)
	}

	post, err := s.postService.Create(c.UserContext(), currentUserID(c), req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Only the author may delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.Delete(c.UserContext(), c.Params("id"), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "post removed"})
}

// LikePost handles PUT /api/posts/like/:id and returns the updated
// likes list.
func (s *Server) LikePost(c *fiber.Ctx) error {
	likes, err := s.postService.Like(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	likes, err := s.postService.Unlike(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/comment/:id and returns the updated
// comments list, newest first.
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	v := validation.New()
	v.Require("text", req.Text, "text is required")
	if errs := v.Errors(); len(errs) > 0 {
		return respondValidationErrors(c, errs)
	}

	comments, err := s.postService.AddComment(c.UserContext(), c.Params("id"), currentUserID(c), req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// RemoveComment handles DELETE /api/posts/comment/:id/:commentId.
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	comments, err := s.postService.RemoveComment(c.UserContext(),
		c.Params("id"), c.Params("commentId"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}
