// Package github wraps the external repository-hosting API. Remote
// failures of any kind surface as a domain not-found, never as a raw
// transport error; the integration is a pass-through, not core logic.
package github

import (
	"context"
	"log/slog"
	"net/http"

	"devhub/internal/models"

	gh "github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

const reposPerPage = 5

// RepoSummary is the subset of repository metadata exposed to clients.
type RepoSummary struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
}

// Client lists public repositories for a github user.
type Client struct {
	gh *gh.Client
}

// NewClient creates a Client. When token is non-empty the requests are
// authenticated, which raises the API rate limit.
func NewClient(token string) *Client {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{gh: gh.NewClient(httpClient)}
}

// SetBaseURL points the client at an alternate API endpoint. Used by tests.
func (c *Client) SetBaseURL(raw string) error {
	u, err := c.gh.BaseURL.Parse(raw)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// ListUserRepos returns five of the user's public repositories, sorted
// by creation date ascending. Any remote error, including an unknown
// username, maps to a domain not-found.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]RepoSummary, error) {
	opts := &gh.RepositoryListOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: reposPerPage},
	}

	repos, _, err := c.gh.Repositories.List(ctx, username, opts)
	if err != nil {
		slog.WarnContext(ctx, "github repo lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, models.NewNotFoundError("no github profile found")
	}

	summaries := make([]RepoSummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, RepoSummary{
			Name:        r.GetName(),
			HTMLURL:     r.GetHTMLURL(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			Watchers:    r.GetWatchersCount(),
			Forks:       r.GetForksCount(),
		})
	}
	return summaries, nil
}
