package issues

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/workintel/workintel/pkg/domain/issue"
)

// JiraTracker creates issues through the Jira Cloud REST API using basic
// auth with an API token.
type JiraTracker struct {
	domain     string
	projectKey string
	email      string
	apiToken   string
	client     *http.Client
}

func NewJiraTracker(domain, projectKey, email, apiToken string) (*JiraTracker, error) {
	if domain == "" || projectKey == "" || email == "" || apiToken == "" {
		return nil, fmt.Errorf("jira configuration missing (domain, project_key, email, api_token required)")
	}
	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}
	return &JiraTracker{
		domain:     domain,
		projectKey: projectKey,
		email:      email,
		apiToken:   apiToken,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (t *JiraTracker) Provider() string { return "jira" }

func (t *JiraTracker) Create(ctx context.Context, in issue.Issue) (*issue.Created, error) {
	labels := make([]string, 0, len(in.Labels))
	for _, l := range in.Labels {
		// Jira labels cannot contain spaces.
		labels = append(labels, strings.ReplaceAll(l, " ", "-"))
	}
	if in.Status == issue.StatusPendingApproval {
		labels = append(labels, "pending-approval")
	}

	input := map[string]interface{}{
		"fields": map[string]interface{}{
			"project":     map[string]string{"key": t.projectKey},
			"summary":     in.Title,
			"description": in.Body,
			"issuetype":   map[string]string{"name": "Task"},
			"labels":      labels,
		},
	}

	data, err := t.request(ctx, http.MethodPost, "issue", input)
	if err != nil {
		return nil, fmt.Errorf("create jira issue: %w", err)
	}

	var created struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode jira response: %w", err)
	}

	return &issue.Created{
		ID:       created.Key,
		URL:      fmt.Sprintf("%s/browse/%s", t.domain, created.Key),
		TeamID:   in.TeamID,
		Pending:  in.Status == issue.StatusPendingApproval,
		Provider: t.Provider(),
	}, nil
}

func (t *JiraTracker) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(data)
	}

	url := fmt.Sprintf("%s/rest/api/2/%s", t.domain, path)
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(t.email + ":" + t.apiToken))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("jira api error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
