package catalog

import (
	"slices"

	"github.com/mmcdole/photodeck/internal/domain"
	"github.com/mmcdole/photodeck/internal/view"
)

// RenderFavourites redraws the bookmark panel and brings every catalog star
// in line with photos.
func (a *App) RenderFavourites(photos []domain.Photo) {
	a.notice = nil

	if a.panel != nil {
		a.panel.Destroy()
		a.panel = nil
	}

	if len(photos) == 0 {
		a.tree.SetHidden(a.placeholder, false)
	} else {
		a.tree.SetHidden(a.placeholder, true)
		a.panel = view.NewList(photos,
			func(t *view.Tree, p domain.Photo) view.NodeID {
				return photoRow(t, p, "favourites", true)
			},
			view.WithListClass[domain.Photo]("photos"))
		if err := a.panel.MountTo(a.tree, a.bookmark); err != nil {
			a.logger.Error("mount bookmark panel", "error", err)
		}
	}

	a.syncStars(photos)
}

// FavouritesFailed keeps the error for display and rolls catalog stars back
// to the last collection the panel rendered
func (a *App) FavouritesFailed(err error) {
	a.notice = err
	a.syncStars(a.Favourites())
}

// syncStars marks each catalog star active exactly when its photo is in photos
func (a *App) syncStars(photos []domain.Photo) {
	for _, id := range a.catalogStars() {
		n, _ := a.tree.Node(id)
		photoID, ok := dataID(n, "photo-id")
		if !ok {
			continue
		}
		state := StarEmpty
		if domain.ContainsPhoto(photos, photoID) {
			state = StarActive
		}
		n.SetAttr("data-state", state)
	}
}

// Favourites returns the photos shown in the bookmark panel
func (a *App) Favourites() []domain.Photo {
	if a.panel == nil {
		return nil
	}
	return slices.Clone(a.panel.Items())
}

func (a *App) catalogStars() []view.NodeID {
	return a.tree.Find(func(n *view.Node) bool {
		return n.HasClass("star") && n.Data("scope") == "catalog"
	})
}

// toggleStar flips the star locally, then publishes the change
func (a *App) toggleStar(star *view.Node) {
	id := star.Data("photo-id")

	if star.Data("state") == StarEmpty {
		photoID, ok := dataID(star, "photo-id")
		if !ok {
			a.logger.Warn("star without photo id")
			return
		}
		photo, ok := a.photos[photoID]
		if !ok {
			a.logger.Warn("starred photo not found", "id", photoID)
			return
		}
		star.SetAttr("data-state", StarActive)
		a.env.Favourites.Add(photo)
		return
	}

	star.SetAttr("data-state", StarEmpty)
	a.env.Favourites.Remove(id)
}

// OpenPreview mounts a full-size preview of url, replacing any open one
func (a *App) OpenPreview(url string) {
	if url == "" {
		return
	}
	a.ClosePreview()
	a.preview = view.NewPreview(url)
	if err := a.preview.MountTo(a.tree, a.tree.Root()); err != nil {
		a.logger.Error("mount preview", "error", err)
		a.preview = nil
		return
	}
	a.logger.Debug("preview opened", "url", url)
}

// ClosePreview removes the preview if one is open
func (a *App) ClosePreview() {
	if a.preview == nil {
		return
	}
	a.preview.Destroy()
	a.preview = nil
}

// Preview returns the URL of the open preview
func (a *App) Preview() (string, bool) {
	if a.preview == nil || !a.preview.Rendered() {
		return "", false
	}
	return a.preview.URL(), true
}
