// Package catalog builds the photo browser on a view.Tree: a header with the
// catalog and favourites sections, the lazily expanded users -> albums ->
// photos tree, the bookmark panel and the photo preview.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/photodeck/internal/domain"
	"github.com/mmcdole/photodeck/internal/expand"
	"github.com/mmcdole/photodeck/internal/favourites"
	"github.com/mmcdole/photodeck/internal/view"
)

// Section is a top-level view selected from the header
type Section string

const (
	SectionCatalog    Section = "catalog"
	SectionFavourites Section = "favourites"
)

// Title returns the header label for the section
func (s Section) Title() string {
	switch s {
	case SectionCatalog:
		return "Catalog"
	case SectionFavourites:
		return "Favourites"
	default:
		return string(s)
	}
}

// Empty bookmark panel copy
const (
	EmptyHeadline = "Favourites list is empty"
	EmptyDetail   = "Add images by clicking the stars"
)

// Env carries the collaborators every component needs
type Env struct {
	Tree       *view.Tree
	Repo       domain.CatalogRepository
	Favourites *favourites.Service
	Logger     *slog.Logger
}

// App owns the render tree for one session
type App struct {
	env    Env
	tree   *view.Tree
	logger *slog.Logger

	section Section
	menu    map[Section]view.NodeID

	page        view.NodeID // catalog section
	bookmark    view.NodeID // favourites section
	placeholder view.NodeID // empty bookmark state

	loader  *view.Element
	failure *view.Element
	users   *view.List[domain.User]
	coord   *expand.Coordinator[domain.Album]
	boot    uint64

	panel   *view.List[domain.Photo]
	photos  map[int]domain.Photo // photos rendered in the catalog, by id
	preview *view.Element

	notice         error
	removeRenderer func()
}

// New mounts the static skeleton: header, catalog section and the bookmark
// panel with its empty state. Call Start to load users.
func New(env Env) (*App, error) {
	if env.Tree == nil || env.Repo == nil || env.Favourites == nil {
		return nil, fmt.Errorf("catalog: tree, repository and favourites are required")
	}
	if env.Logger == nil {
		env.Logger = slog.Default()
	}

	a := &App{
		env:     env,
		tree:    env.Tree,
		logger:  env.Logger,
		section: SectionCatalog,
		menu:    make(map[Section]view.NodeID),
		photos:  make(map[int]domain.Photo),
	}

	t := a.tree
	root := t.Root()

	header := t.Create("div", view.WithClass("header"))
	menu := t.Create("ul", view.WithClass("menu"))
	t.Append(root, header)
	t.Append(header, menu)
	for _, s := range []Section{SectionCatalog, SectionFavourites} {
		item := t.Create("li", view.WithClass("menu-item"), view.WithAttr("id", string(s)), view.WithText(s.Title()))
		t.Append(menu, item)
		a.menu[s] = item
	}

	a.page = t.Create("section", view.WithClass("users"))
	t.Append(root, a.page)

	a.bookmark = t.Create("section", view.WithClass("items-bookmark"))
	t.Append(root, a.bookmark)
	a.placeholder = t.Create("div", view.WithClass("bookmark"))
	t.Append(a.bookmark, a.placeholder)
	t.Append(a.placeholder, t.Create("h3", view.WithText(EmptyHeadline)))
	t.Append(a.placeholder, t.Create("p", view.WithText(EmptyDetail)))

	if err := t.AddClickListener(root, a.onClick); err != nil {
		return nil, err
	}
	a.removeRenderer = env.Favourites.AddRenderer(a)

	a.selectSection(SectionCatalog)
	env.Favourites.Render()
	return a, nil
}

// Close detaches the app from the favourites service
func (a *App) Close() {
	if a.removeRenderer != nil {
		a.removeRenderer()
		a.removeRenderer = nil
	}
}

// Tree returns the render tree
func (a *App) Tree() *view.Tree { return a.tree }

// Section returns the visible section
func (a *App) Section() Section { return a.section }

// Notice returns the last favourites failure, if any
func (a *App) Notice() error { return a.notice }

// Loading reports whether any loading indicator is mounted
func (a *App) Loading() bool {
	return len(a.tree.Find(func(n *view.Node) bool { return n.HasClass("loading") })) > 0
}

// Start loads the user list. Until it resolves a loader fills the catalog
// section; a failure replaces it with a full-page error and nothing else.
func (a *App) Start() view.Async {
	a.boot++
	token := a.boot

	a.loader = view.NewLoading()
	if err := a.loader.MountTo(a.tree, a.page); err != nil {
		a.logger.Error("mount bootstrap loader", "error", err)
		return nil
	}

	repo := a.env.Repo
	return func(ctx context.Context) func() {
		users, err := repo.GetUsers(ctx)
		return func() { a.finishStart(token, users, err) }
	}
}

func (a *App) finishStart(token uint64, users []domain.User, err error) {
	if token != a.boot {
		a.logger.Debug("discarding stale user load")
		return
	}
	if a.loader != nil {
		a.loader.Destroy()
		a.loader = nil
	}

	if err != nil {
		a.logger.Error("failed to load users", "error", err)
		a.failure = view.NewError(err)
		if mountErr := a.failure.MountTo(a.tree, a.page); mountErr != nil {
			a.logger.Error("mount bootstrap error", "error", mountErr)
		}
		return
	}

	a.logger.Info("loaded users", "count", len(users))
	a.renderUsers(users)
}

// reset discards all catalog state
func (a *App) reset() {
	a.boot++
	if a.coord != nil {
		a.coord.Destroy()
		a.coord = nil
	}
	if a.users != nil {
		a.users.Destroy()
		a.users = nil
	}
	if a.loader != nil {
		a.loader.Destroy()
		a.loader = nil
	}
	if a.failure != nil {
		a.failure.Destroy()
		a.failure = nil
	}
	clear(a.photos)
	a.ClosePreview()
}

// ShowCatalog switches to the catalog. It always reloads from scratch,
// discarding every expanded node.
func (a *App) ShowCatalog() view.Async {
	a.selectSection(SectionCatalog)
	a.reset()
	a.logger.Info("reloading catalog")
	return a.Start()
}

// ShowFavourites switches to the bookmark panel and re-renders it from the
// persisted collection. Catalog state is kept, only hidden.
func (a *App) ShowFavourites() {
	a.selectSection(SectionFavourites)
	a.env.Favourites.Render()
}

func (a *App) selectSection(s Section) {
	a.section = s
	for section, id := range a.menu {
		if n, ok := a.tree.Node(id); ok {
			if section == s {
				n.AddClass("active")
			} else {
				n.RemoveClass("active")
			}
		}
	}
	a.tree.SetHidden(a.page, s != SectionCatalog)
	a.tree.SetHidden(a.bookmark, s != SectionFavourites)
}

// Expanded reports the expansion status of a user
func (a *App) Expanded(userID int) (expand.Status, bool) {
	if a.coord == nil {
		return 0, false
	}
	return a.coord.Status(userID)
}

// onClick handles clicks anywhere in the app that are not tied to a list
func (a *App) onClick(ev *view.ClickEvent) {
	target := ev.Target
	switch {
	case target.HasClass("menu-item"):
		id, _ := target.Attr("id")
		switch Section(id) {
		case SectionCatalog:
			ev.Go(a.ShowCatalog())
		case SectionFavourites:
			a.ShowFavourites()
		}
	case target.HasClass("star"):
		a.toggleStar(target)
	case target.HasClass("thumb"):
		url, _ := target.Attr("data-url")
		a.OpenPreview(url)
	case target.HasClass("close-preview"):
		a.ClosePreview()
	}
}
