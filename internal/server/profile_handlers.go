package server

import (
	"devhub/internal/models"
	"devhub/internal/service"
	"devhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me. A missing profile is an
// expected outcome, reported as not-found, never a server error.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetOwn(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile: all profiles joined with their
// owner's name and avatar.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:id, unauthenticated.
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUserID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile: creates the caller's profile
// on first call, updates the same document afterwards. Only supplied
// optional fields are written.
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req struct {
		Company        *string `json:"company"`
		Website        *string `json:"website"`
		Location       *string `json:"location"`
		Bio            *string `json:"bio"`
		Status         string  `json:"status"`
		GithubUsername *string `json:"githubusername"`
		Skills         string  `json:"skills"`
		Youtube        string  `json:"youtube"`
		Twitter        string  `json:"twitter"`
		Facebook       string  `json:"facebook"`
		Linkedin       string  `json:"linkedin"`
		Instagram      string  `json:"instagram"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	v := validation.New()
	v.Require("status", req.Status, "status is required")
	v.Require("skills", req.Skills, "skills is required")
	if errs := v.Errors(); len(errs) > 0 {
		return respondValidationErrors(c, errs)
	}

	profile, err := s.profileService.Upsert(c.UserContext(), currentUserID(c), service.UpsertProfileInput{
		Status:         req.Status,
		Skills:         validation.SplitSkills(req.Skills),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Social: models.Social{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			Linkedin:  req.Linkedin,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// DeleteProfileAndUser handles DELETE /api/profile: removes the caller's
// profile and then the account itself.
func (s *Server) DeleteProfileAndUser(c *fiber.Ctx) error {
	if err := s.profileService.DeleteOwn(c.UserContext(), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "user deleted"})
}

// AddExperience handles PUT /api/profile/experience.
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Company     string `json:"company"`
		Location    string `json:"location"`
		From        string `json:"from"`
		To          string `json:"to"`
		Current     bool   `json:"current"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	v := validation.New()
	v.Require("title", req.Title, "title is required")
	v.Require("company", req.Company, "company is required")
	v.Require("from", req.From, "from date is required")
	if errs := v.Errors(); len(errs) > 0 {
		return respondValidationErrors(c, errs)
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), currentUserID(c), service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:id.
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education.
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req struct {
		School       string `json:"school"`
		Degree       string `json:"degree"`
		FieldOfStudy string `json:"fieldofstudy"`
		From         string `json:"from"`
		To           string `json:"to"`
		Current      bool   `json:"current"`
		Description  string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	v := validation.New()
	v.Require("school", req.School, "school is required")
	v.Require("degree", req.Degree, "degree is required")
	v.Require("fieldofstudy", req.FieldOfStudy, "field of study is required")
	v.Require("from", req.From, "from date is required")
	if errs := v.Errors(); len(errs) > 0 {
		return respondValidationErrors(c, errs)
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), currentUserID(c), service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:id.
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetGithubRepos handles GET /api/profile/github/:username. A remote
// failure of any kind surfaces as not-found.
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	repos, err := s.githubClient.ListUserRepos(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(repos)
}
