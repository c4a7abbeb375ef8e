// Package aurion fetches enrollment data from the Web Aurion API. The API is
// not public: calls execute saved requests (favoris) prepared by the
// instance administrator for an account with the matching permissions.
package aurion

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// favoriUnites is the saved request exposing course-unit codes and labels.
const favoriUnites = "18152939"

// UniteRow is one row of the unites favori. Code and Label come back
// exactly as the server sent them; any cleanup happens downstream.
type UniteRow struct {
	Code  string
	Label string
}

// Client executes favoris against one Aurion instance.
type Client struct {
	URL      string
	Login    string
	Password string
	Database string

	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
}

// NewClient returns a client for the Aurion server at apiURL, querying the
// named database.
func NewClient(apiURL, login, password, database string) *Client {
	return &Client{URL: apiURL, Login: login, Password: password, Database: database}
}

// FetchUnites executes the unites favori and returns its rows. A row
// without a Code.Unité cell is malformed and fails the whole fetch.
func (c *Client) FetchUnites(ctx context.Context) ([]UniteRow, error) {
	root, err := c.executeFavori(ctx, favoriUnites)
	if err != nil {
		return nil, err
	}

	found := root.findAll("row")
	rows := make([]UniteRow, 0, len(found))
	for i, row := range found {
		code, ok := row.childText("Code.Unité")
		if !ok {
			return nil, fmt.Errorf("unites favori: row %d has no Code.Unité cell", i)
		}
		label, _ := row.childText("Libellé.Unité")
		rows = append(rows, UniteRow{Code: code, Label: label})
	}
	return rows, nil
}

func (c *Client) executeFavori(ctx context.Context, favoriID string) (node, error) {
	payload := fmt.Sprintf(
		"<executeFavori><favori><id>%s</id></favori><database>%s</database></executeFavori>",
		favoriID, c.Database)

	form := url.Values{
		"login":    {c.Login},
		"password": {c.Password},
		"data":     {payload},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return node{}, fmt.Errorf("executeFavori %s: %w", favoriID, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return node{}, fmt.Errorf("executeFavori %s: %w", favoriID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return node{}, fmt.Errorf("executeFavori %s: unexpected status %d", favoriID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return node{}, fmt.Errorf("executeFavori %s: read response: %w", favoriID, err)
	}

	var root node
	if err := xml.Unmarshal(body, &root); err != nil {
		return node{}, fmt.Errorf("executeFavori %s: decode response: %w", favoriID, err)
	}
	return root, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// node is a generic response element: favori results nest rows at varying
// depths, and cell names carry dots and accents ("Code.Unité").
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Children []node `xml:",any"`
}

func (n node) findAll(tag string) []node {
	var out []node
	if n.XMLName.Local == tag {
		out = append(out, n)
	}
	for _, child := range n.Children {
		out = append(out, child.findAll(tag)...)
	}
	return out
}

func (n node) childText(tag string) (string, bool) {
	for _, child := range n.Children {
		if child.XMLName.Local == tag {
			return child.Text, true
		}
	}
	return "", false
}
