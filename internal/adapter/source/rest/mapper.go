package rest

import "github.com/mmcdole/photodeck/internal/domain"

// MapUsers converts API users to domain users
func MapUsers(users []User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, domain.User{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Email:    u.Email,
		})
	}
	return out
}

// MapAlbums converts API albums to domain albums
func MapAlbums(albums []Album) []domain.Album {
	out := make([]domain.Album, 0, len(albums))
	for _, a := range albums {
		out = append(out, domain.Album{ID: a.ID, UserID: a.UserID, Title: a.Title})
	}
	return out
}

// MapPhotos converts API photos to domain photos
func MapPhotos(photos []Photo) []domain.Photo {
	out := make([]domain.Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, domain.Photo{
			ID:           p.ID,
			AlbumID:      p.AlbumID,
			Title:        p.Title,
			URL:          p.URL,
			ThumbnailURL: p.ThumbnailURL,
		})
	}
	return out
}
