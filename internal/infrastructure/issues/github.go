// Package issues implements the external issue trackers coordination
// issues are created in.
package issues

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/workintel/workintel/pkg/domain/issue"
)

// githubIssuesAPI is the subset of the GitHub Issues API the tracker needs.
type githubIssuesAPI interface {
	Create(ctx context.Context, owner string, repo string, req *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// GitHubTracker creates issues through the GitHub REST API.
type GitHubTracker struct {
	owner  string
	repo   string
	issues githubIssuesAPI
}

func NewGitHubTracker(ctx context.Context, token, ownerRepo string) (*GitHubTracker, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repo must be owner/name, got %q", ownerRepo)
	}
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	return &GitHubTracker{
		owner:  owner,
		repo:   repo,
		issues: client.Issues,
	}, nil
}

func (t *GitHubTracker) Provider() string { return "github" }

func (t *GitHubTracker) Create(ctx context.Context, in issue.Issue) (*issue.Created, error) {
	labels := append([]string{}, in.Labels...)
	if in.Status == issue.StatusPendingApproval {
		labels = append(labels, "pending-approval")
	}

	req := &github.IssueRequest{
		Title:  github.Ptr(in.Title),
		Body:   github.Ptr(in.Body),
		Labels: &labels,
	}

	created, _, err := t.issues.Create(ctx, t.owner, t.repo, req)
	if err != nil {
		return nil, fmt.Errorf("create github issue: %w", err)
	}

	return &issue.Created{
		ID:       fmt.Sprintf("%d", created.GetNumber()),
		URL:      created.GetHTMLURL(),
		TeamID:   in.TeamID,
		Pending:  in.Status == issue.StatusPendingApproval,
		Provider: t.Provider(),
	}, nil
}
