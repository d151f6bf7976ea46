package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/photodeck/internal/domain"
)

// Client implements domain.CatalogRepository over the users/albums/photos API
type Client struct {
	baseURL string
	loader  *Loader
	logger  *slog.Logger
}

// NewClient creates a new API client
func NewClient(baseURL string, timeout, latency time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		loader:  NewLoader(timeout, latency, logger),
		logger:  logger,
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u = fmt.Sprintf("%s?%s", u, query.Encode())
	}
	return u
}

// GetUsers fetches every user
func (c *Client) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []User
	if err := c.loader.Load(ctx, c.url("/users", nil), &users); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched users", "count", len(users))
	return MapUsers(users), nil
}

// GetAlbums fetches the albums of one user
func (c *Client) GetAlbums(ctx context.Context, userID int) ([]domain.Album, error) {
	query := url.Values{"userId": {strconv.Itoa(userID)}}
	var albums []Album
	if err := c.loader.Load(ctx, c.url("/albums", query), &albums); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched albums", "userId", userID, "count", len(albums))
	return MapAlbums(albums), nil
}

// GetPhotos fetches the photos of one album
func (c *Client) GetPhotos(ctx context.Context, albumID int) ([]domain.Photo, error) {
	query := url.Values{"albumId": {strconv.Itoa(albumID)}}
	var photos []Photo
	if err := c.loader.Load(ctx, c.url("/photos", query), &photos); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched photos", "albumId", albumID, "count", len(photos))
	return MapPhotos(photos), nil
}
