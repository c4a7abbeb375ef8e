package ade

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Client talks to the ADE Web API, reached on the usual server URL followed
// by /jsp/webapi. Every call is a GET whose behavior is selected by the
// "function" query parameter. Sessions are stateful: Connect stores the
// session id and every later call sends it back as "sessionId".
type Client struct {
	URL      string
	Login    string
	Password string

	// DumpDir, when set, receives a <function>.xml copy of every raw
	// response body for offline inspection.
	DumpDir string

	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client

	sessionID string
	projectID string
}

// NewClient returns a client for the Web API at apiURL.
func NewClient(apiURL, login, password string) *Client {
	return &Client{URL: apiURL, Login: login, Password: password}
}

// Connect opens a session and remembers its id for all subsequent calls.
func (c *Client) Connect(ctx context.Context) (string, error) {
	root, err := c.send(ctx, "connect", url.Values{
		"login":    {c.Login},
		"password": {c.Password},
	})
	if err != nil {
		return "", err
	}

	id := root.Get("id")
	if id == "" {
		return "", fmt.Errorf("connect: response carries no session id")
	}
	c.sessionID = id
	return id, nil
}

// SetProject selects the project whose data subsequent calls operate on.
func (c *Client) SetProject(ctx context.Context, projectID string) error {
	if _, err := c.send(ctx, "setProject", url.Values{"projectId": {projectID}}); err != nil {
		return err
	}
	c.projectID = projectID
	return nil
}

// Disconnect closes the session and returns the closed session id.
func (c *Client) Disconnect(ctx context.Context) (string, error) {
	root, err := c.send(ctx, "disconnect", nil)
	if err != nil {
		return "", err
	}
	c.sessionID = ""
	return root.Get("sessionId"), nil
}

// FetchProjects lists the projects available to the account.
func (c *Client) FetchProjects(ctx context.Context) ([]Record, error) {
	root, err := c.send(ctx, "getProjects", url.Values{"detail": {"1"}})
	if err != nil {
		return nil, err
	}
	return root.FindAll("project"), nil
}

// FetchResources returns every resource record of the current project.
func (c *Client) FetchResources(ctx context.Context) ([]Record, error) {
	root, err := c.send(ctx, "getResources", url.Values{"detail": {"11"}})
	if err != nil {
		return nil, err
	}
	return root.FindAll("resource"), nil
}

// FetchEvents returns every event record of the current project. The lower
// detail level keeps the response reasonable; nested resources are included
// from detail 8 on.
func (c *Client) FetchEvents(ctx context.Context) ([]Record, error) {
	root, err := c.send(ctx, "getEvents", url.Values{"detail": {"8"}})
	if err != nil {
		return nil, err
	}
	return root.FindAll("event"), nil
}

// FetchActivities returns every activity record of the current project.
func (c *Client) FetchActivities(ctx context.Context) ([]Record, error) {
	root, err := c.send(ctx, "getActivities", url.Values{"detail": {"11"}})
	if err != nil {
		return nil, err
	}
	return root.FindAll("activity"), nil
}

func (c *Client) send(ctx context.Context, function string, params url.Values) (Record, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	if c.sessionID != "" {
		params.Set("sessionId", c.sessionID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL+"?"+params.Encode(), nil)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", function, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("%s: unexpected status %d", function, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Record{}, fmt.Errorf("%s: read response: %w", function, err)
	}
	// An unknown function comes back as a 200 with an empty body.
	if len(body) == 0 {
		return Record{}, fmt.Errorf("%s: empty response body", function)
	}

	if c.DumpDir != "" {
		name := filepath.Join(c.DumpDir, function+".xml")
		if err := os.WriteFile(name, body, 0o644); err != nil {
			return Record{}, fmt.Errorf("%s: dump response: %w", function, err)
		}
	}

	var root Record
	if err := xml.Unmarshal(body, &root); err != nil {
		return Record{}, fmt.Errorf("%s: decode response: %w", function, err)
	}
	// Failures are also 200s; the server reports them inside the payload.
	if root.Name() == "error" {
		return Record{}, fmt.Errorf("%s: server error: %s", function, root.Get("name"))
	}
	return root, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
