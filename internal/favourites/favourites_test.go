package favourites

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/photodeck/internal/adapter"
	"github.com/mmcdole/photodeck/internal/domain"
	"github.com/mmcdole/photodeck/internal/store"
)

type recordingRenderer struct {
	renders [][]domain.Photo
	errs    []error
}

func (r *recordingRenderer) RenderFavourites(photos []domain.Photo) {
	r.renders = append(r.renders, photos)
}

func (r *recordingRenderer) FavouritesFailed(err error) {
	r.errs = append(r.errs, err)
}

func (r *recordingRenderer) last() []domain.Photo {
	if len(r.renders) == 0 {
		return nil
	}
	return r.renders[len(r.renders)-1]
}

type failingStore struct {
	domain.KeyValueStore
}

func (failingStore) Set(string, string) error { return errors.New("disk full") }

type unreadableStore struct {
	domain.KeyValueStore
}

func (unreadableStore) Get(string) (string, bool, error) {
	return "", false, errors.New("read failed")
}

func newService(t *testing.T) (*Service, *Repository, *store.KVStore) {
	t.Helper()
	kv, err := store.NewKVStore("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	repo := NewRepository(kv)
	svc := NewService(repo, NewBus(), adapter.NullLogger())
	t.Cleanup(svc.Close)
	return svc, repo, kv
}

func photo(id int) domain.Photo {
	return domain.Photo{
		ID:           id,
		AlbumID:      1,
		Title:        "photo " + strconv.Itoa(id),
		URL:          "https://via.placeholder.com/600/" + strconv.Itoa(id),
		ThumbnailURL: "https://via.placeholder.com/150/" + strconv.Itoa(id),
	}
}

func listed(t *testing.T, svc *Service) []domain.Photo {
	t.Helper()
	photos, err := svc.List()
	require.NoError(t, err)
	return photos
}

func ids(photos []domain.Photo) []int {
	out := make([]int, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}

func TestRepository_MissingKeyIsEmpty(t *testing.T) {
	_, repo, _ := newService(t)

	photos, err := repo.Load()
	require.NoError(t, err)
	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}

func TestRepository_PersistsJSONUnderItemsKey(t *testing.T) {
	_, repo, kv := newService(t)

	require.NoError(t, repo.Save([]domain.Photo{{ID: 5, Title: "x", URL: "u", ThumbnailURL: "t"}}))

	raw, ok, err := kv.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":5,"albumId":0,"title":"x","url":"u","thumbnailUrl":"t"}]`, raw)
}

func TestRepository_CorruptedValue(t *testing.T) {
	_, repo, kv := newService(t)
	require.NoError(t, kv.Set(StorageKey, "{not json"))

	_, err := repo.Load()
	assert.Error(t, err)
}

func TestService_AddAndRemove(t *testing.T) {
	svc, _, _ := newService(t)
	r := &recordingRenderer{}
	svc.AddRenderer(r)

	svc.Add(domain.Photo{ID: 5, URL: "u", ThumbnailURL: "t", Title: "x"})
	require.Len(t, r.renders, 1)
	assert.Equal(t, []int{5}, ids(r.last()))
	assert.Equal(t, []int{5}, ids(listed(t, svc)))

	// Ids arrive as strings from node attributes
	svc.Remove("5")
	require.Len(t, r.renders, 2)
	assert.Empty(t, r.last())
	assert.Empty(t, listed(t, svc))
}

func TestService_FoldOverEvents(t *testing.T) {
	type event struct {
		kind EventType
		id   int
	}

	tests := []struct {
		name   string
		events []event
	}{
		{name: "empty"},
		{name: "adds keep order", events: []event{{EventAdd, 3}, {EventAdd, 1}, {EventAdd, 2}}},
		{name: "remove missing is noop", events: []event{{EventAdd, 1}, {EventRemove, 9}}},
		{name: "duplicates accumulate", events: []event{{EventAdd, 4}, {EventAdd, 4}, {EventAdd, 5}}},
		{name: "remove drops every copy", events: []event{{EventAdd, 4}, {EventAdd, 4}, {EventRemove, 4}, {EventAdd, 6}}},
		{name: "interleaved", events: []event{{EventAdd, 1}, {EventAdd, 2}, {EventRemove, 1}, {EventAdd, 3}, {EventRemove, 2}, {EventAdd, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)

			var want []int
			for _, ev := range tt.events {
				switch ev.kind {
				case EventAdd:
					svc.Add(photo(ev.id))
					want = append(want, ev.id)
				case EventRemove:
					svc.Remove(strconv.Itoa(ev.id))
					kept := want[:0:0]
					for _, id := range want {
						if id != ev.id {
							kept = append(kept, id)
						}
					}
					want = kept
				}
			}

			got, err := repo.Load()
			require.NoError(t, err)
			if want == nil {
				want = []int{}
			}
			assert.Equal(t, want, ids(got))
		})
	}
}

func TestService_RemoveWithBadID(t *testing.T) {
	svc, repo, _ := newService(t)
	svc.Add(photo(1))

	svc.Remove("not-a-number")
	svc.Remove("")

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(got))
}

func TestService_AddWithPointerPayload(t *testing.T) {
	svc, repo, _ := newService(t)
	p := photo(7)

	svc.bus.Emit(EventAdd, &p)

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids(got))
}

func TestService_BadPayloadReportsFailure(t *testing.T) {
	svc, repo, _ := newService(t)
	r := &recordingRenderer{}
	svc.AddRenderer(r)

	svc.bus.Emit(EventAdd, "oops")

	assert.Empty(t, r.renders)
	require.Len(t, r.errs, 1)
	got, _ := repo.Load()
	assert.Empty(t, got)
}

func TestService_RenderIsIdempotent(t *testing.T) {
	svc, _, _ := newService(t)
	svc.Add(photo(1))
	svc.Add(photo(2))

	r := &recordingRenderer{}
	svc.AddRenderer(r)
	svc.Render()
	svc.Render()

	require.Len(t, r.renders, 2)
	assert.Equal(t, r.renders[0], r.renders[1])
}

func TestService_RendersEveryRegisteredView(t *testing.T) {
	svc, _, _ := newService(t)
	a, b := &recordingRenderer{}, &recordingRenderer{}
	svc.AddRenderer(a)
	removeB := svc.AddRenderer(b)

	svc.Add(photo(1))
	assert.Len(t, a.renders, 1)
	assert.Len(t, b.renders, 1)

	removeB()
	svc.Add(photo(2))
	assert.Len(t, a.renders, 2)
	assert.Len(t, b.renders, 1)
}

func TestService_CorruptedStoreIsNotOverwritten(t *testing.T) {
	svc, _, kv := newService(t)
	r := &recordingRenderer{}
	svc.AddRenderer(r)
	require.NoError(t, kv.Set(StorageKey, "garbage"))

	svc.Add(photo(1))

	raw, _, _ := kv.Get(StorageKey)
	assert.Equal(t, "garbage", raw)
	require.Len(t, r.errs, 1)
	_, err := svc.List()
	assert.Error(t, err)

	svc.Render()
	assert.Len(t, r.errs, 2)
}

func TestRepository_ReadFailureIsNotEmpty(t *testing.T) {
	repo := NewRepository(unreadableStore{})

	photos, err := repo.Load()
	assert.ErrorContains(t, err, "read failed")
	assert.Nil(t, photos)
}

func TestService_ReadFailureDoesNotOverwrite(t *testing.T) {
	kv, err := store.NewKVStore("")
	require.NoError(t, err)
	require.NoError(t, kv.Set(StorageKey, `[{"id":7}]`))

	svc := NewService(NewRepository(unreadableStore{kv}), NewBus(), adapter.NullLogger())
	defer svc.Close()
	r := &recordingRenderer{}
	svc.AddRenderer(r)

	svc.Add(photo(1))

	assert.Empty(t, r.renders)
	require.Len(t, r.errs, 1)
	raw, _, err := kv.Get(StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7}]`, raw)
}

func TestService_WriteFailureSurfaces(t *testing.T) {
	kv, err := store.NewKVStore("")
	require.NoError(t, err)
	svc := NewService(NewRepository(failingStore{kv}), NewBus(), adapter.NullLogger())
	defer svc.Close()

	r := &recordingRenderer{}
	svc.AddRenderer(r)
	svc.Add(photo(1))

	assert.Empty(t, r.renders)
	require.Len(t, r.errs, 1)
	assert.ErrorContains(t, r.errs[0], "disk full")
}

func TestService_OtherSubscribersSeeEvents(t *testing.T) {
	svc, _, _ := newService(t)

	var seen []EventType
	unsubscribe := svc.bus.Subscribe(func(kind EventType, _ any) { seen = append(seen, kind) })
	defer unsubscribe()

	svc.Add(photo(1))
	svc.Remove("1")
	assert.Equal(t, []EventType{EventAdd, EventRemove}, seen)
}

func TestService_CloseStopsPersisting(t *testing.T) {
	svc, repo, _ := newService(t)
	svc.Close()

	svc.Add(photo(1))
	got, _ := repo.Load()
	assert.Empty(t, got)
}

func TestService_ConcurrentAddsSerialize(t *testing.T) {
	svc, repo, _ := newService(t)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			svc.Add(photo(id))
		}(i)
	}
	wg.Wait()

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestFilter(t *testing.T) {
	photos := []domain.Photo{
		{ID: 1, Title: "accusamus beatae ad facilis"},
		{ID: 2, Title: "reprehenderit est deserunt"},
		{ID: 3, Title: "officia porro iure quia"},
		{ID: 4, Title: "beatae"},
	}

	assert.Equal(t, photos, Filter(photos, ""))
	assert.Equal(t, []int{4, 1}, ids(Filter(photos, "BEATAE")))
	assert.Empty(t, Filter(photos, "zzz"))
}
