package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botanika/portal/config"
	"github.com/botanika/portal/models"
	"github.com/botanika/portal/store"
	"github.com/botanika/portal/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	cfg := config.AppConfig{
		StoreBaseURL:       "http://store.invalid",
		RateLimitPerMinute: 1000,
		// Unreachable redis: the cache layer degrades to pass-through.
		RedisHost: "127.0.0.1",
		RedisPort: 1,
		LogLevel:  "error",
	}
	config.SetForTesting(cfg)
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubStore struct {
	mu          sync.Mutex
	listCalls   []url.Values
	createCalls []models.Draft
	items       []models.Announcement
	listErr     error
	createErr   error
}

func (s *stubStore) List(ctx context.Context, category, search string) ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, url.Values{"category": {category}, "search": {search}})
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.items == nil {
		return []models.Announcement{}, nil
	}
	return s.items, nil
}

func (s *stubStore) Create(ctx context.Context, d models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls = append(s.createCalls, d)
	return s.createErr
}

func newTestRouter(s *stubStore) *gin.Engine {
	r := gin.New()
	ac := NewAnnouncementController(s)
	r.GET("/api/v1/announcements", ac.List)
	r.POST("/api/v1/announcements", ac.Create)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListProxiesStoreItems(t *testing.T) {
	s := &stubStore{items: []models.Announcement{
		{ID: 1, Title: "Продам детскую коляску", AuthorName: "Мария К.", Status: models.StatusApproved, Category: models.CategorySale},
	}}
	r := newTestRouter(s)

	w := doJSON(r, "GET", "/api/v1/announcements?category=sale", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Items []models.Announcement `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "Продам детскую коляску", resp.Data.Items[0].Title)

	require.Len(t, s.listCalls, 1)
	assert.Equal(t, "sale", s.listCalls[0].Get("category"))
	assert.Equal(t, "", s.listCalls[0].Get("search"))
}

func TestListForwardsSearchQuery(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	w := doJSON(r, "GET", "/api/v1/announcements?search="+url.QueryEscape("коляска"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, s.listCalls, 1)
	assert.Equal(t, models.CategoryAll, s.listCalls[0].Get("category"))
	assert.Equal(t, "коляска", s.listCalls[0].Get("search"))
}

func TestListEmptyResultIsSuccess(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	w := doJSON(r, "GET", "/api/v1/announcements?search=nothing-matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestListUnknownCategoryRejected(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	w := doJSON(r, "GET", "/api/v1/announcements?category=garage", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.listCalls, "invalid input never reaches the store")
}

func TestListStoreFailureIsBadGateway(t *testing.T) {
	s := &stubStore{listErr: store.ErrUnavailable}
	r := newTestRouter(s)

	w := doJSON(r, "GET", "/api/v1/announcements?search=x", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCreateForwardsSanitizedDraft(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	w := doJSON(r, "POST", "/api/v1/announcements", map[string]string{
		"title":  "Продам <script>alert(1)</script>коляску",
		"author": "  Мария К. ",
		"text":   "Цена 8000 руб.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "queued for moderation")

	require.Len(t, s.createCalls, 1)
	d := s.createCalls[0]
	assert.Equal(t, "Продам коляску", d.Title)
	assert.Equal(t, "Мария К.", d.AuthorName)
	assert.Equal(t, models.CategoryOther, d.Category)
}

func TestCreateMissingFieldIssuesNoWrite(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	for name, body := range map[string]map[string]string{
		"missing title":    {"author": "Мария К.", "text": "x"},
		"missing author":   {"title": "t", "text": "x"},
		"missing text":     {"title": "t", "author": "Мария К."},
		"whitespace title": {"title": "   ", "author": "Мария К.", "text": "x"},
	} {
		w := doJSON(r, "POST", "/api/v1/announcements", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.Empty(t, s.createCalls)
}

func TestCreateUnknownCategoryRejected(t *testing.T) {
	s := &stubStore{}
	r := newTestRouter(s)

	w := doJSON(r, "POST", "/api/v1/announcements", map[string]string{
		"title": "t", "author": "a", "text": "x", "category": "garage",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.createCalls)
}

func TestCreateStoreRejection(t *testing.T) {
	s := &stubStore{createErr: &store.RejectedError{Status: 422, Message: "too long"}}
	r := newTestRouter(s)

	w := doJSON(r, "POST", "/api/v1/announcements", map[string]string{
		"title": "t", "author": "a", "text": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateStoreUnavailable(t *testing.T) {
	s := &stubStore{createErr: store.ErrUnavailable}
	r := newTestRouter(s)

	w := doJSON(r, "POST", "/api/v1/announcements", map[string]string{
		"title": "t", "author": "a", "text": "x",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
