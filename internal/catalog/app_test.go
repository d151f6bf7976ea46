package catalog

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/photodeck/internal/adapter"
	"github.com/mmcdole/photodeck/internal/domain"
	"github.com/mmcdole/photodeck/internal/expand"
	"github.com/mmcdole/photodeck/internal/favourites"
	"github.com/mmcdole/photodeck/internal/store"
	"github.com/mmcdole/photodeck/internal/view"
)

type fakeRepo struct {
	users    []domain.User
	usersErr error
	albums   map[int][]domain.Album
	albumErr error
	photos   map[int][]domain.Photo

	userCalls  int
	albumCalls []int
	photoCalls []int
}

func (r *fakeRepo) GetUsers(context.Context) ([]domain.User, error) {
	r.userCalls++
	return r.users, r.usersErr
}

func (r *fakeRepo) GetAlbums(_ context.Context, userID int) ([]domain.Album, error) {
	r.albumCalls = append(r.albumCalls, userID)
	if r.albumErr != nil {
		return nil, r.albumErr
	}
	return r.albums[userID], nil
}

func (r *fakeRepo) GetPhotos(_ context.Context, albumID int) ([]domain.Photo, error) {
	r.photoCalls = append(r.photoCalls, albumID)
	return r.photos[albumID], nil
}

var testPhoto = domain.Photo{ID: 5, AlbumID: 10, URL: "u", ThumbnailURL: "t", Title: "x"}

func newRepo() *fakeRepo {
	return &fakeRepo{
		users:  []domain.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}},
		albums: map[int][]domain.Album{1: {{ID: 10, UserID: 1, Title: "Trip"}}},
		photos: map[int][]domain.Photo{10: {testPhoto}},
	}
}

type harness struct {
	app  *App
	repo *fakeRepo
	bus  *favourites.Bus
	favs *favourites.Service
	kv   *store.KVStore
}

func newHarness(t *testing.T, repo *fakeRepo) *harness {
	t.Helper()
	kv, err := store.NewKVStore("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	logger := adapter.NullLogger()
	bus := favourites.NewBus()
	favs := favourites.NewService(favourites.NewRepository(kv), bus, logger)
	t.Cleanup(favs.Close)

	app, err := New(Env{Tree: view.NewTree(logger), Repo: repo, Favourites: favs, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return &harness{app: app, repo: repo, bus: bus, favs: favs, kv: kv}
}

// started bootstraps the app and applies the user load
func started(t *testing.T, repo *fakeRepo) *harness {
	t.Helper()
	h := newHarness(t, repo)
	run(h.app.Start())
	return h
}

func run(works ...view.Async) {
	for _, w := range works {
		if w != nil {
			w(context.Background())()
		}
	}
}

func (h *harness) find(pred func(*view.Node) bool) (*view.Node, bool) {
	ids := h.app.Tree().Find(pred)
	if len(ids) == 0 {
		return nil, false
	}
	n, _ := h.app.Tree().Node(ids[0])
	return n, true
}

func (h *harness) findAll(pred func(*view.Node) bool) []view.NodeID {
	return h.app.Tree().Find(pred)
}

// click dispatches a click on the first node with class and the given data
// attribute, then runs the queued work to completion
func (h *harness) click(t *testing.T, class, key, value string) {
	t.Helper()
	n, ok := h.find(func(n *view.Node) bool {
		return n.HasClass(class) && (key == "" || n.Data(key) == value)
	})
	require.True(t, ok, "no .%s with data-%s=%s", class, key, value)
	run(h.app.Tree().Click(n.ID)...)
}

func (h *harness) clickID(t *testing.T, class string, id string) {
	t.Helper()
	n, ok := h.find(func(n *view.Node) bool {
		v, _ := n.Attr("id")
		return n.HasClass(class) && v == id
	})
	require.True(t, ok)
	run(h.app.Tree().Click(n.ID)...)
}

func (h *harness) texts(class string) []string {
	var out []string
	for _, id := range h.findAll(func(n *view.Node) bool { return n.HasClass(class) }) {
		n, _ := h.app.Tree().Node(id)
		out = append(out, n.Text)
	}
	return out
}

func (h *harness) star(t *testing.T, scope string, id int) *view.Node {
	t.Helper()
	n, ok := h.find(func(n *view.Node) bool {
		return n.HasClass("star") && n.Data("scope") == scope && n.Data("photo-id") == strconv.Itoa(id)
	})
	require.True(t, ok)
	return n
}

func (h *harness) stored(t *testing.T) []int {
	t.Helper()
	photos, err := h.favs.List()
	require.NoError(t, err)
	var ids []int
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Env{})
	assert.Error(t, err)
}

func TestApp_Skeleton(t *testing.T) {
	h := newHarness(t, newRepo())

	menu, ok := h.find(func(n *view.Node) bool { v, _ := n.Attr("id"); return v == "catalog" })
	require.True(t, ok)
	assert.True(t, menu.HasClass("active"))
	assert.Equal(t, SectionCatalog, h.app.Section())

	placeholder, ok := h.find(func(n *view.Node) bool { return n.HasClass("bookmark") })
	require.True(t, ok)
	assert.False(t, placeholder.Hidden)
}

func TestApp_StartShowsLoaderThenUsers(t *testing.T) {
	h := newHarness(t, newRepo())

	work := h.app.Start()
	require.NotNil(t, work)
	assert.True(t, h.app.Loading())
	assert.Empty(t, h.texts("user-link"))

	run(work)
	assert.False(t, h.app.Loading())
	assert.Equal(t, []string{"Alice", "Bob"}, h.texts("user-link"))
	assert.Equal(t, 1, h.repo.userCalls)
}

func TestApp_StartFailureRendersFullPageError(t *testing.T) {
	repo := newRepo()
	repo.usersErr = &domain.FetchError{URL: "/users", Err: errors.New("connection refused")}
	h := started(t, repo)

	assert.False(t, h.app.Loading())
	assert.Empty(t, h.texts("user-link"))
	_, ok := h.find(func(n *view.Node) bool { return n.HasClass("error") })
	assert.True(t, ok)

	var lines []string
	h.app.Tree().Walk(func(n *view.Node, _ int) bool {
		if n.Tag == "li" && n.Text != "" && !n.HasClass("menu-item") {
			lines = append(lines, n.Text)
		}
		return true
	})
	assert.Equal(t, []string{view.ErrorHeadline, view.ErrorDetail}, lines)
}

func TestApp_UsersAlbumsPhotosQueries(t *testing.T) {
	repo := &fakeRepo{
		users:  []domain.User{{ID: 1, Name: "Alice"}},
		albums: map[int][]domain.Album{1: {{ID: 10, Title: "Trip"}}},
		photos: map[int][]domain.Photo{10: {testPhoto}},
	}
	h := started(t, repo)

	h.click(t, "user-link", "user-id", "1")
	assert.Equal(t, []int{1}, repo.albumCalls)
	assert.Equal(t, []string{"Trip"}, h.texts("album-link"))

	h.click(t, "album-link", "album-id", "10")
	assert.Equal(t, []int{10}, repo.photoCalls)
	assert.Equal(t, []string{"x"}, h.texts("title"))

	for _, kind := range []string{"user", "album"} {
		row, ok := h.find(func(n *view.Node) bool { return n.Tag == "li" && n.HasClass(kind) })
		require.True(t, ok, kind)
		assert.Equal(t, "true", row.Data("expandable"), kind)
	}
	photo, ok := h.find(func(n *view.Node) bool { return n.Tag == "li" && n.HasClass("photo") })
	require.True(t, ok)
	assert.Empty(t, photo.Data("expandable"))

	// Album clicks stop at the album list without touching users
	status, ok := h.app.Expanded(1)
	require.True(t, ok)
	assert.Equal(t, expand.StatusLoaded, status)
	assert.Len(t, repo.albumCalls, 1)
}

func TestApp_CollapseUserRemovesSubtree(t *testing.T) {
	h := started(t, newRepo())
	base := h.app.Tree().Len()

	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	row, ok := h.find(func(n *view.Node) bool { return n.HasClass("user") && n.HasClass("expanded") })
	require.True(t, ok)
	assert.Equal(t, "li", row.Tag)

	h.click(t, "user-link", "user-id", "1")
	_, ok = h.app.Expanded(1)
	assert.False(t, ok)
	assert.Equal(t, base, h.app.Tree().Len())
	assert.Empty(t, h.findAll(func(n *view.Node) bool { return n.HasClass("expanded") }))

	h.click(t, "user-link", "user-id", "1")
	assert.Equal(t, []int{1, 1}, h.repo.albumCalls)
}

func TestApp_AlbumFetchErrorStaysLocal(t *testing.T) {
	repo := newRepo()
	repo.albumErr = errors.New("timeout")
	h := started(t, repo)

	h.click(t, "user-link", "user-id", "1")

	status, ok := h.app.Expanded(1)
	require.True(t, ok)
	assert.Equal(t, expand.StatusError, status)
	// Sibling users still render
	assert.Equal(t, []string{"Alice", "Bob"}, h.texts("user-link"))
}

func TestApp_StarAddAndRemove(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")

	star := h.star(t, "catalog", 5)
	assert.Equal(t, StarEmpty, star.Data("state"))

	var events []favourites.EventType
	var payloads []any
	unsubscribe := h.bus.Subscribe(func(kind favourites.EventType, payload any) {
		events = append(events, kind)
		payloads = append(payloads, payload)
	})
	defer unsubscribe()

	h.click(t, "star", "scope", "catalog")
	assert.Equal(t, StarActive, h.star(t, "catalog", 5).Data("state"))
	assert.Equal(t, []int{5}, h.stored(t))
	require.Len(t, h.app.Favourites(), 1)
	assert.Equal(t, testPhoto, h.app.Favourites()[0])

	h.click(t, "star", "scope", "catalog")
	assert.Equal(t, StarEmpty, h.star(t, "catalog", 5).Data("state"))
	assert.Empty(t, h.stored(t))
	assert.Empty(t, h.app.Favourites())

	placeholder, _ := h.find(func(n *view.Node) bool { return n.HasClass("bookmark") })
	assert.False(t, placeholder.Hidden)

	assert.Equal(t, []favourites.EventType{favourites.EventAdd, favourites.EventRemove}, events)
	assert.Equal(t, []any{testPhoto, "5"}, payloads)
}

func TestApp_StarStateFromPersistedCollection(t *testing.T) {
	h := newHarness(t, newRepo())
	h.favs.Add(testPhoto)
	run(h.app.Start())

	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")

	assert.Equal(t, StarActive, h.star(t, "catalog", 5).Data("state"))
}

func TestApp_RemovingFromPanelResetsCatalogStar(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	h.click(t, "star", "scope", "catalog")

	h.clickID(t, "menu-item", "favourites")
	h.click(t, "star", "scope", "favourites")

	assert.Empty(t, h.stored(t))
	assert.Equal(t, StarEmpty, h.star(t, "catalog", 5).Data("state"))
}

func TestApp_PanelRenderIsIdempotent(t *testing.T) {
	h := newHarness(t, newRepo())
	h.favs.Add(testPhoto)

	h.app.ShowFavourites()
	first := h.texts("title")
	h.app.ShowFavourites()

	assert.Equal(t, first, h.texts("title"))
	assert.Equal(t, []string{"x"}, h.texts("title"))
}

func TestApp_HeaderToggle(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")

	h.clickID(t, "menu-item", "favourites")
	assert.Equal(t, SectionFavourites, h.app.Section())
	page, _ := h.find(func(n *view.Node) bool { return n.HasClass("users") })
	bookmark, _ := h.find(func(n *view.Node) bool { return n.HasClass("items-bookmark") })
	assert.True(t, page.Hidden)
	assert.False(t, bookmark.Hidden)

	// Catalog state survives while hidden
	_, ok := h.app.Expanded(1)
	assert.True(t, ok)
	fav, _ := h.find(func(n *view.Node) bool { v, _ := n.Attr("id"); return v == "favourites" })
	assert.True(t, fav.HasClass("active"))

	h.clickID(t, "menu-item", "catalog")
	assert.Equal(t, SectionCatalog, h.app.Section())
	assert.False(t, page.Hidden)
	assert.True(t, bookmark.Hidden)
	assert.False(t, fav.HasClass("active"))

	// Switching to catalog reloads from scratch
	_, ok = h.app.Expanded(1)
	assert.False(t, ok)
	assert.Equal(t, 2, h.repo.userCalls)
	assert.Equal(t, []string{"Alice", "Bob"}, h.texts("user-link"))
}

func TestApp_StaleBootstrapIsDiscarded(t *testing.T) {
	h := newHarness(t, newRepo())

	first := h.app.Start()
	second := h.app.ShowCatalog()
	run(first)
	assert.True(t, h.app.Loading())

	run(second)
	assert.False(t, h.app.Loading())
	assert.Equal(t, []string{"Alice", "Bob"}, h.texts("user-link"))
}

func TestApp_Preview(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")

	h.click(t, "thumb", "url", "u")
	url, ok := h.app.Preview()
	require.True(t, ok)
	assert.Equal(t, "u", url)

	h.click(t, "close-preview", "", "")
	_, ok = h.app.Preview()
	assert.False(t, ok)
	assert.Empty(t, h.findAll(func(n *view.Node) bool { return n.HasClass("preview") }))
}

func TestApp_FavouritesFailureIsNoticed(t *testing.T) {
	h := started(t, newRepo())
	require.NoError(t, h.kv.Set(favourites.StorageKey, "not json"))

	h.favs.Add(testPhoto)
	assert.Error(t, h.app.Notice())

	require.NoError(t, h.kv.Set(favourites.StorageKey, "[]"))
	h.app.ShowFavourites()
	assert.NoError(t, h.app.Notice())
}

func TestApp_FailedStarRollsBack(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	require.NoError(t, h.kv.Set(favourites.StorageKey, "not json"))

	h.click(t, "star", "scope", "catalog")
	assert.Error(t, h.app.Notice())
	assert.Equal(t, StarEmpty, h.star(t, "catalog", 5).Data("state"))
	assert.Empty(t, h.app.Favourites())
}

func TestApp_FailedUnstarKeepsLastCollection(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	h.click(t, "star", "scope", "catalog")
	require.Equal(t, StarActive, h.star(t, "catalog", 5).Data("state"))

	require.NoError(t, h.kv.Set(favourites.StorageKey, "not json"))
	h.click(t, "star", "scope", "catalog")
	assert.Error(t, h.app.Notice())
	assert.Equal(t, StarActive, h.star(t, "catalog", 5).Data("state"))
	require.Len(t, h.app.Favourites(), 1)
}

func TestApp_CollapsePrunesPhotoIndex(t *testing.T) {
	h := started(t, newRepo())
	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	assert.Contains(t, h.app.photos, 5)

	h.click(t, "album-link", "album-id", "10")
	assert.Empty(t, h.app.photos)

	h.click(t, "album-link", "album-id", "10")
	require.Contains(t, h.app.photos, 5)

	// Collapsing the user tears down its albums and their photos
	h.click(t, "user-link", "user-id", "1")
	assert.Empty(t, h.app.photos)
}

func TestApp_ListClicksStopAtTheirList(t *testing.T) {
	h := started(t, newRepo())

	var reached []string
	require.NoError(t, h.app.Tree().AddClickListener(h.app.Tree().Root(), func(ev *view.ClickEvent) {
		reached = append(reached, ev.Target.Text)
	}))

	h.click(t, "user-link", "user-id", "1")
	h.click(t, "album-link", "album-id", "10")
	assert.Empty(t, reached)

	h.click(t, "star", "scope", "catalog")
	assert.Equal(t, []string{""}, reached)
	assert.Equal(t, StarActive, h.star(t, "catalog", 5).Data("state"))
}
