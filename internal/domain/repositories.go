package domain

import "context"

// CatalogRepository provides read-only access to the remote catalog
type CatalogRepository interface {
	// GetUsers returns every user
	GetUsers(ctx context.Context) ([]User, error)

	// GetAlbums returns the albums owned by a user
	GetAlbums(ctx context.Context, userID int) ([]Album, error)

	// GetPhotos returns the photos in an album
	GetPhotos(ctx context.Context, albumID int) ([]Photo, error)
}
