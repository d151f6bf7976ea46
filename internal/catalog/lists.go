package catalog

import (
	"strconv"

	"github.com/mmcdole/photodeck/internal/domain"
	"github.com/mmcdole/photodeck/internal/expand"
	"github.com/mmcdole/photodeck/internal/view"
)

// Star icon states, carried in the star's data-state attribute
const (
	StarActive = "active"
	StarEmpty  = "empty"
)

// itemRow renders a user or album as a row holding one link. The row, link
// and id attribute are named after the item type, e.g. li.user >
// a.user-link[data-user-id]. Rows that load children are flagged expandable.
func itemRow[T domain.ListItem](t *view.Tree, item T) view.NodeID {
	kind := item.GetItemType().String()
	opts := []view.NodeOption{view.WithClass(kind)}
	if item.CanExpand() {
		opts = append(opts, view.WithData("expandable", "true"))
	}
	row := t.Create("li", opts...)
	t.Append(row, t.Create("a",
		view.WithClass(kind+"-link"),
		view.WithData(kind+"-id", strconv.Itoa(item.GetID())),
		view.WithText(item.GetTitle())))
	return row
}

// photoRow renders a photo with its thumbnail, star and title. scope tells
// catalog rows from bookmark panel rows.
func photoRow(t *view.Tree, p domain.Photo, scope string, starred bool) view.NodeID {
	state := StarEmpty
	if starred {
		state = StarActive
	}
	id := p.IDString()

	row := t.Create("li", view.WithClass(p.GetItemType().String()), view.WithData("photo-id", id))
	t.Append(row, t.Create("img",
		view.WithClass("thumb"),
		view.WithAttr("src", p.ThumbnailURL),
		view.WithData("url", p.URL)))
	t.Append(row, t.Create("img",
		view.WithClass("star"),
		view.WithData("photo-id", id),
		view.WithData("scope", scope),
		view.WithData("state", state)))
	t.Append(row, t.Create("p", view.WithClass("title"), view.WithText(p.GetTitle())))
	return row
}

// itemKey keys list rows by the entity id
func itemKey[T domain.ListItem](item T) int { return item.GetID() }

// dataID reads a numeric data attribute; ok is false when absent or invalid
func dataID(n *view.Node, key string) (int, bool) {
	raw := n.Data(key)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (a *App) renderUsers(users []domain.User) {
	a.users = view.NewList(users, itemRow[domain.User],
		view.WithKey(itemKey[domain.User]),
		view.WithListClass[domain.User]("user-items"))
	if err := a.users.MountTo(a.tree, a.page); err != nil {
		a.logger.Error("mount user list", "error", err)
		return
	}

	a.coord = expand.NewCoordinator[domain.Album](a.tree, a.users,
		a.env.Repo.GetAlbums, a.buildAlbums, a.logger.With("level", "user"))

	list, coord := a.users, a.coord
	list.OnClick(func(ev *view.ClickEvent) {
		userID, ok := dataID(ev.Target, "user-id")
		if !ok {
			return
		}
		ev.Go(coord.Click(userID))
		markExpanded(a.tree, list, userID, coord)
		ev.StopPropagation()
	})
}

// markExpanded flags the row of a node that is not idle
func markExpanded[T, R any](t *view.Tree, rows *view.List[R], id int, coord *expand.Coordinator[T]) {
	row, ok := rows.Row(id)
	if !ok {
		return
	}
	n, ok := t.Node(row)
	if !ok {
		return
	}
	if _, expanded := coord.Status(id); expanded {
		n.AddClass("expanded")
	} else {
		n.RemoveClass("expanded")
	}
}

// buildAlbums renders a user's albums and the coordinator for their photos
func (a *App) buildAlbums(t *view.Tree, userID int, albums []domain.Album) (expand.View, expand.Child) {
	list := view.NewList(albums, itemRow[domain.Album],
		view.WithKey(itemKey[domain.Album]),
		view.WithListClass[domain.Album]("user-albums"))
	list.Render(t)

	coord := expand.NewCoordinator[domain.Photo](t, list,
		a.env.Repo.GetPhotos, a.buildPhotos, a.logger.With("level", "album", "user", userID))

	list.OnClick(func(ev *view.ClickEvent) {
		albumID, ok := dataID(ev.Target, "album-id")
		if !ok {
			return
		}
		ev.Go(coord.Click(albumID))
		markExpanded(t, list, albumID, coord)
		ev.StopPropagation()
	})
	return list, coord
}

// buildPhotos renders an album's photos with stars reflecting the
// persisted collection
func (a *App) buildPhotos(t *view.Tree, _ int, photos []domain.Photo) (expand.View, expand.Child) {
	saved, err := a.env.Favourites.List()
	if err != nil {
		a.logger.Warn("favourites unreadable, showing empty stars", "error", err)
	}
	index := indexedPhotos{photos: a.photos, ids: make([]int, 0, len(photos))}
	for _, p := range photos {
		a.photos[p.ID] = p
		index.ids = append(index.ids, p.ID)
	}

	list := view.NewList(photos,
		func(t *view.Tree, p domain.Photo) view.NodeID {
			return photoRow(t, p, "catalog", domain.ContainsPhoto(saved, p.ID))
		},
		view.WithKey(itemKey[domain.Photo]),
		view.WithListClass[domain.Photo]("user-photos"))
	list.Render(t)
	return list, index
}

// indexedPhotos drops an album's photos from the star index when the album
// collapses
type indexedPhotos struct {
	photos map[int]domain.Photo
	ids    []int
}

func (p indexedPhotos) Destroy() {
	for _, id := range p.ids {
		delete(p.photos, id)
	}
}
