package domain

import "strconv"

// ItemType distinguishes catalog content types
type ItemType int

const (
	ItemTypeUser ItemType = iota
	ItemTypeAlbum
	ItemTypePhoto
)

// String returns the lowercase name used in logs and node attributes
func (t ItemType) String() string {
	switch t {
	case ItemTypeUser:
		return "user"
	case ItemTypeAlbum:
		return "album"
	case ItemTypePhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// User is an account owning albums
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"` // Display only
	Email    string `json:"email,omitempty"`    // Display only
}

// Album groups photos for a single user
type Album struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
}

// Photo is a single image with a full-size and thumbnail URL.
// The JSON shape doubles as the persisted favourites format.
type Photo struct {
	ID           int    `json:"id"`
	AlbumID      int    `json:"albumId"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// ListItem interface implementation

func (u User) GetID() int            { return u.ID }
func (u User) GetTitle() string      { return u.Name }
func (u User) GetItemType() ItemType { return ItemTypeUser }
func (u User) CanExpand() bool       { return true }

func (a Album) GetID() int            { return a.ID }
func (a Album) GetTitle() string      { return a.Title }
func (a Album) GetItemType() ItemType { return ItemTypeAlbum }
func (a Album) CanExpand() bool       { return true }

func (p Photo) GetID() int            { return p.ID }
func (p Photo) GetTitle() string      { return p.Title }
func (p Photo) GetItemType() ItemType { return ItemTypePhoto }
func (p Photo) CanExpand() bool       { return false }

// IDString returns the id in the form carried by node attributes
func (p Photo) IDString() string {
	return strconv.Itoa(p.ID)
}

// ContainsPhoto reports whether any photo in the collection has the given id
func ContainsPhoto(photos []Photo, id int) bool {
	for _, p := range photos {
		if p.ID == id {
			return true
		}
	}
	return false
}
