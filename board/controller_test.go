package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botanika/portal/models"
	"github.com/botanika/portal/store"
)

type listCall struct {
	category string
	search   string
}

type fakeStore struct {
	mu          sync.Mutex
	listCalls   []listCall
	createCalls []models.Draft
	createErr   error
	listFn      func(category, search string) ([]models.Announcement, error)
}

func (f *fakeStore) List(ctx context.Context, category, search string) ([]models.Announcement, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, listCall{category, search})
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(category, search)
	}
	return []models.Announcement{}, nil
}

func (f *fakeStore) Create(ctx context.Context, d models.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, d)
	return f.createErr
}

func (f *fakeStore) calls() []listCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]listCall, len(f.listCalls))
	copy(out, f.listCalls)
	return out
}

func (f *fakeStore) creates() []models.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Draft, len(f.createCalls))
	copy(out, f.createCalls)
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *fakeNotifier) Notify(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *fakeNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.titles) == 0 {
		return ""
	}
	return n.titles[len(n.titles)-1]
}

func newTestController(fs *fakeStore) (*Controller, *fakeNotifier) {
	n := &fakeNotifier{}
	return New(fs, n, nil, time.Second), n
}

func TestInitialState(t *testing.T) {
	c, _ := newTestController(&fakeStore{})
	st := c.Snapshot()

	assert.Equal(t, models.CategoryAll, st.Category)
	assert.Equal(t, "", st.Search)
	assert.Empty(t, st.Items)
	assert.False(t, st.DialogOpen)
	assert.Equal(t, models.EmptyDraft(), st.Draft)
}

func TestRefreshEmptyListIsNotAnError(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	c.Refresh()
	c.Wait()

	st := c.Snapshot()
	require.NoError(t, st.Err)
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.False(t, st.Loading)

	calls := fs.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, listCall{models.CategoryAll, ""}, calls[0])
}

func TestSearchKeepsCategoryAndForwardsQuery(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	c.SetSearch("  коляска  ")
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, "коляска", st.Search)
	assert.Equal(t, models.CategoryAll, st.Category)

	calls := fs.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, listCall{models.CategoryAll, "коляска"}, calls[0])
}

func TestSelectCategoryClearsSearch(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	c.SetSearch("коляска")
	c.Wait()
	c.SelectCategory(models.CategorySale)
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, models.CategorySale, st.Category)
	assert.Equal(t, "", st.Search)

	calls := fs.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, listCall{models.CategorySale, ""}, calls[1])
}

func TestSelectUnknownCategoryIgnored(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	c.SelectCategory("garage")
	c.Wait()

	assert.Empty(t, fs.calls())
	assert.Equal(t, models.CategoryAll, c.Snapshot().Category)
}

func TestStaleResponseDoesNotOverwriteNewerOne(t *testing.T) {
	slowRelease := make(chan struct{})
	fs := &fakeStore{}
	fs.listFn = func(category, search string) ([]models.Announcement, error) {
		if search != "" {
			<-slowRelease
			return []models.Announcement{{ID: 1, Title: "Продам детскую коляску"}}, nil
		}
		return []models.Announcement{{ID: 2, Title: "Ищу няню", Category: models.CategorySale}}, nil
	}
	c, _ := newTestController(fs)

	// The search request is triggered first but resolves last.
	c.SetSearch("коляска")
	c.SelectCategory(models.CategorySale)
	close(slowRelease)
	c.Wait()

	st := c.Snapshot()
	require.NoError(t, st.Err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, int64(2), st.Items[0].ID,
		"list must reflect the most recently triggered request, not the last response")
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	fs := &fakeStore{}
	fs.listFn = func(category, search string) ([]models.Announcement, error) {
		return []models.Announcement{{ID: 7, Title: "Субботник"}}, nil
	}
	c, _ := newTestController(fs)

	c.Refresh()
	c.Wait()
	require.Len(t, c.Snapshot().Items, 1)

	fs.mu.Lock()
	fs.listFn = func(category, search string) ([]models.Announcement, error) {
		return nil, store.ErrUnavailable
	}
	fs.mu.Unlock()

	c.Refresh()
	c.Wait()

	st := c.Snapshot()
	assert.Len(t, st.Items, 1, "previous list is kept on failure")
	assert.ErrorIs(t, st.Err, store.ErrUnavailable)
	assert.False(t, st.Loading)
}

func TestSubmitInvalidDraftIssuesNoWrite(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	c.OpenDialog()
	c.SetDraft(models.Draft{Title: "Продам коляску", AuthorName: "   ", Text: "почти новая"})

	err := c.Submit()
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Empty(t, fs.creates())

	st := c.Snapshot()
	assert.True(t, st.DialogOpen, "dialog stays open for correction")
	assert.Equal(t, "   ", st.Draft.AuthorName, "draft fields are untouched")
}

func TestSubmitSuccessClearsDraftAndRefreshes(t *testing.T) {
	fs := &fakeStore{}
	c, n := newTestController(fs)

	c.SelectCategory(models.CategorySale)
	c.Wait()

	c.OpenDialog()
	c.SetDraft(models.Draft{Title: "Продам коляску", AuthorName: "Мария К.", Text: "Цена 8000 руб."})

	require.NoError(t, c.Submit())
	c.Wait()

	creates := fs.creates()
	require.Len(t, creates, 1)
	assert.Equal(t, models.CategoryOther, creates[0].Category, "empty category defaults to other")

	st := c.Snapshot()
	assert.Equal(t, models.EmptyDraft(), st.Draft)
	assert.False(t, st.DialogOpen)
	assert.Contains(t, n.last(), "модерацию")

	calls := fs.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, listCall{models.CategorySale, ""}, calls[1],
		"refresh after submit uses the current filter state")
}

func TestSubmitFailureKeepsDraftAndDialog(t *testing.T) {
	fs := &fakeStore{createErr: errors.New("store down")}
	c, n := newTestController(fs)

	c.OpenDialog()
	draft := models.Draft{Title: "Продам коляску", AuthorName: "Мария К.", Text: "Цена 8000 руб."}
	c.SetDraft(draft)

	err := c.Submit()
	require.Error(t, err)
	require.Len(t, fs.creates(), 1, "exactly one write per submit, no retries")

	st := c.Snapshot()
	assert.True(t, st.DialogOpen)
	assert.Equal(t, draft, st.Draft)
	assert.NotEmpty(t, n.last())

	assert.Empty(t, fs.calls(), "no refresh after a failed submit")
}

func TestCancelDialogDiscardsDraft(t *testing.T) {
	c, _ := newTestController(&fakeStore{})

	c.OpenDialog()
	c.SetDraft(models.Draft{Title: "t", AuthorName: "a", Text: "x"})
	c.CancelDialog()

	st := c.Snapshot()
	assert.False(t, st.DialogOpen)
	assert.Equal(t, models.EmptyDraft(), st.Draft)
}
