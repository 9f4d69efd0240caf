// Package record provides an HTTP client for the remote record
// container: a collection holding the single record whose content field
// is the serialized AppState.
package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/storage"
)

// Ensure Client implements storage.RemoteStore
var _ storage.RemoteStore = (*Client)(nil)

// Client talks to a record container over HTTP/JSON. Every failure,
// connectivity or otherwise, is returned as a plain error for the sync
// coordinator to classify as remote-unavailable.
type Client struct {
	baseURL    string
	collection string
	hc         *http.Client
}

// New creates a Client for the given base URL and collection name.
func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    baseURL,
		collection: collection,
		hc:         &http.Client{Timeout: 10 * time.Second},
	}
}

type wireRecord struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

func (c *Client) recordsURL() string {
	return fmt.Sprintf("%s/api/collections/%s/records", c.baseURL, c.collection)
}

// Fetch retrieves the first (and only) record of the collection.
func (c *Client) Fetch(ctx context.Context) (*storage.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.recordsURL()+"?perPage=1", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, storage.ErrNoRecord
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote fetch returned %s", resp.Status)
	}

	var list struct {
		Items []wireRecord `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode record list: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, storage.ErrNoRecord
	}

	item := list.Items[0]
	state, err := storage.DecodeContent(item.Content)
	if err != nil {
		return nil, err
	}
	return &storage.Record{ID: item.ID, State: state}, nil
}

// Create stores a new record with a client-generated ID and returns it.
func (c *Client) Create(ctx context.Context, state *models.AppState) (string, error) {
	id := uuid.New().String()
	if err := c.send(ctx, http.MethodPost, c.recordsURL(), id, state); err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites the record with the given ID.
func (c *Client) Update(ctx context.Context, id string, state *models.AppState) error {
	url := fmt.Sprintf("%s/%s", c.recordsURL(), id)
	return c.send(ctx, http.MethodPatch, url, id, state)
}

func (c *Client) send(ctx context.Context, method, url, id string, state *models.AppState) error {
	body, err := json.Marshal(struct {
		ID      string           `json:"id"`
		Content *models.AppState `json:"content"`
	}{ID: id, Content: state})
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("remote %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return storage.ErrNoRecord
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote %s returned %s", method, resp.Status)
	}
	return nil
}
