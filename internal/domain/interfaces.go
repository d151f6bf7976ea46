package domain

// ListItem is the polymorphic interface for catalog entries rendered in lists.
// User, Album and Photo implement it directly.
type ListItem interface {
	// GetID returns the unique identifier for this item
	GetID() int

	// GetTitle returns the display title
	GetTitle() string

	// GetItemType returns the item kind
	GetItemType() ItemType

	// CanExpand returns true if clicking this item loads child content
	CanExpand() bool
}
