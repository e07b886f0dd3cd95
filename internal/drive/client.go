package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a thin wrapper over the Google Drive v3 files endpoint. It only
// covers what the app consumes: listing images in a shared folder and
// building thumbnail URLs.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type File struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	ThumbnailLink string `json:"thumbnailLink,omitempty"`
}

type fileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListFolderImages pages through every image file in a folder. The folder
// must be shared "anyone with the link" for API-key access to work.
func (c *Client) ListFolderImages(ctx context.Context, folderID string) ([]File, error) {
	var files []File
	pageToken := ""

	for {
		page, next, err := c.listPage(ctx, folderID, pageToken)
		if err != nil {
			return nil, err
		}
		files = append(files, page...)
		if next == "" {
			return files, nil
		}
		pageToken = next
	}
}

func (c *Client) listPage(ctx context.Context, folderID, pageToken string) ([]File, string, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", folderID))
	q.Set("fields", "nextPageToken, files(id, name, mimeType, thumbnailLink)")
	q.Set("pageSize", "200")
	q.Set("key", c.apiKey)
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+q.Encode(), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("drive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("drive responded with status %d", resp.StatusCode)
	}

	var list fileList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, "", fmt.Errorf("failed to decode drive response: %w", err)
	}

	return list.Files, list.NextPageToken, nil
}

// ThumbnailURL builds a public thumbnail URL for a file at the given width.
func ThumbnailURL(fileID string, width int) string {
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w%d", fileID, width)
}
