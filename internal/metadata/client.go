// Package metadata looks up book records in the Google Books catalog.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound reports that the catalog returned no match for the query.
// Callers surface this as an explicit "not found" result to the user.
var ErrNotFound = errors.New("book not found")

// Book is the subset of a Google Books volume record the application uses.
type Book struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	PublishedDate string   `json:"publishedDate"`
	PageCount     int      `json:"pageCount"`
	Language      string   `json:"language"`
}

// Client is a Google Books API client.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public Google Books API.
func NewClient() *Client {
	return &Client{
		BaseURL: "https://www.googleapis.com/books/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Lookup searches for a volume by title (and author, when known) and
// returns the first result. Only the first search result is used.
func (c *Client) Lookup(ctx context.Context, title, author string) (*Book, error) {
	query := "intitle:" + title
	if author != "" {
		query += "+inauthor:" + author
	}

	searchURL := fmt.Sprintf("%s/volumes?q=%s", c.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Google Books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google Books API returned status %d: %s", resp.StatusCode, string(body))
	}

	var booksResp struct {
		Items []struct {
			VolumeInfo Book `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&booksResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	if len(booksResp.Items) == 0 {
		return nil, ErrNotFound
	}

	book := booksResp.Items[0].VolumeInfo
	return &book, nil
}
