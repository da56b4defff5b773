// Package board implements the announcement board session controller: the
// active filter state, the submission draft and dialog, and the visible list,
// kept in sync with the remote store.
package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/botanika/portal/models"
)

// ErrInvalidDraft is returned by Submit when a required draft field is empty.
// No network write is issued in that case.
var ErrInvalidDraft = errors.New("draft is missing required fields")

var validate = validator.New()

// Store is the remote announcement collection the controller synchronizes
// against.
type Store interface {
	List(ctx context.Context, category, search string) ([]models.Announcement, error)
	Create(ctx context.Context, draft models.Draft) error
}

// Notifier receives user-facing messages (the toast layer in the web UI).
type Notifier interface {
	Notify(title, detail string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

// State is a point-in-time copy of the controller's visible state.
type State struct {
	Category   string
	Search     string
	Items      []models.Announcement
	Loading    bool
	Err        error
	DialogOpen bool
	Draft      models.Draft
}

// Controller owns one board session. All mutators are safe for concurrent
// use; asynchronous refresh completions are sequenced so a stale response
// never overwrites the result of a later-triggered one.
type Controller struct {
	store    Store
	notifier Notifier
	log      *zap.SugaredLogger
	timeout  time.Duration

	mu      sync.Mutex
	settled *sync.Cond

	category   string
	search     string
	items      []models.Announcement
	loading    bool
	lastErr    error
	dialogOpen bool
	draft      models.Draft

	seq     uint64
	cancel  context.CancelFunc
	pending int
}

// New creates a session controller starting at category "all" with no search
// and an empty draft. timeout bounds every store call. notifier and log may
// be nil.
func New(store Store, notifier Notifier, log *zap.SugaredLogger, timeout time.Duration) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Controller{
		store:    store,
		notifier: notifier,
		log:      log,
		timeout:  timeout,
		category: models.CategoryAll,
		items:    []models.Announcement{},
		draft:    models.EmptyDraft(),
	}
	c.settled = sync.NewCond(&c.mu)
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.Announcement, len(c.items))
	copy(items, c.items)
	return State{
		Category:   c.category,
		Search:     c.search,
		Items:      items,
		Loading:    c.loading,
		Err:        c.lastErr,
		DialogOpen: c.dialogOpen,
		Draft:      c.draft,
	}
}

// SelectCategory switches the active category and clears any search query;
// the two are mutually exclusive refinement modes. A refresh is triggered
// immediately. Unknown categories are ignored.
func (c *Controller) SelectCategory(category string) {
	if category != models.CategoryAll && !models.ValidCategory(category) {
		c.log.Warnw("ignoring unknown category", "category", category)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
	c.search = ""
	c.triggerRefreshLocked()
}

// SetSearch updates the search query (trimmed; empty means no text filter)
// and triggers a refresh. The active category is kept.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = strings.TrimSpace(query)
	c.triggerRefreshLocked()
}

// Refresh re-reads the list for the current filters.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.triggerRefreshLocked()
}

// triggerRefreshLocked starts an asynchronous list read tagged with a fresh
// sequence number. The previously in-flight read, if any, is cancelled; its
// response would be discarded anyway once the tag no longer matches.
func (c *Controller) triggerRefreshLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.loading = true
	c.pending++
	category, search := c.category, c.search

	go func() {
		items, err := c.store.List(ctx, category, search)
		cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		defer func() {
			c.pending--
			c.settled.Broadcast()
		}()

		if seq != c.seq {
			// A newer refresh was triggered while this one was in flight.
			c.log.Debugw("discarding stale list response", "seq", seq, "latest", c.seq)
			return
		}
		c.loading = false
		if err != nil {
			// Keep the previous list; surface the error state only.
			c.lastErr = err
			c.log.Errorw("announcement list refresh failed",
				"category", category, "search", search, "error", err)
			return
		}
		c.items = items
		c.lastErr = nil
	}()
}

// Wait blocks until no refresh is in flight.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending > 0 {
		c.settled.Wait()
	}
}

// OpenDialog opens the submission dialog.
func (c *Controller) OpenDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogOpen = true
}

// CancelDialog closes the dialog and discards the draft.
func (c *Controller) CancelDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogOpen = false
	c.draft = models.EmptyDraft()
}

// SetDraft replaces the pending draft with the given form contents.
func (c *Controller) SetDraft(d models.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Submit sends the current draft to the store for moderation. An invalid
// draft returns ErrInvalidDraft without touching the network. On success the
// draft is cleared, the dialog closes and a refresh is triggered with the
// current filters; on failure both draft and dialog are preserved so the
// user can correct and explicitly resubmit.
func (c *Controller) Submit() error {
	c.mu.Lock()
	d := c.draft
	c.mu.Unlock()

	d.Title = strings.TrimSpace(d.Title)
	d.AuthorName = strings.TrimSpace(d.AuthorName)
	d.Text = strings.TrimSpace(d.Text)
	if d.Category == "" {
		d.Category = models.CategoryOther
	}
	if err := validate.Struct(d); err != nil {
		return errors.Join(ErrInvalidDraft, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.store.Create(ctx, d); err != nil {
		c.log.Errorw("announcement submission failed", "title", d.Title, "error", err)
		c.notifier.Notify("Не удалось отправить объявление", "Попробуйте ещё раз позже.")
		return err
	}

	c.mu.Lock()
	c.draft = models.EmptyDraft()
	c.dialogOpen = false
	c.triggerRefreshLocked()
	c.mu.Unlock()

	c.notifier.Notify("Объявление отправлено на модерацию",
		"Ваше объявление будет опубликовано после проверки модератором.")
	return nil
}
