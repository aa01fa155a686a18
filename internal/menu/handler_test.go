package menu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dashpos/internal/auth"
	"dashpos/internal/domain"
)

const (
	bizA = "11111111-1111-1111-1111-111111111111"
	bizB = "22222222-2222-2222-2222-222222222222"
)

type fakeRepo struct {
	RepositoryInterface
	items map[string]domain.MenuItem
}

func (f *fakeRepo) GetItem(_ context.Context, id string) (*domain.MenuItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (f *fakeRepo) CreateItem(_ context.Context, it domain.MenuItem) error {
	f.items[it.ID] = it
	return nil
}

func (f *fakeRepo) HardDeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

type noopBus struct{}

func (noopBus) Publish(_ context.Context, _, _ string, _ any) {}

func newTestRouter(t *testing.T, repo RepositoryInterface) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tm := auth.NewTokenManager("test-secret", time.Minute, time.Hour)
	access, _, err := tm.Generate("user-1", []domain.BusinessRole{
		{BusinessID: bizA, Role: domain.RoleOwner},
	})
	require.NoError(t, err)

	h := NewHandler(NewService(repo, noopBus{}), zap.NewNop())
	r := gin.New()
	grp := r.Group("/menu", auth.Middleware(tm), auth.RequireBusinessAccess())
	h.Register(grp)
	return r, access
}

func TestGetItemOtherBusinessIsNotFound(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{
		"item-b": {ID: "item-b", BusinessID: bizB, Name: "Carbonara", Price: 12},
	}}
	r, token := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/menu/items/item-b?business_id="+bizA, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteItemOtherBusinessIsNotFound(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{
		"item-b": {ID: "item-b", BusinessID: bizB, Name: "Carbonara", Price: 12},
	}}
	r, token := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/menu/items/item-b?business_id="+bizA, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	_, ok := repo.items["item-b"]
	assert.True(t, ok, "row must survive a cross-business delete")
}

func TestCreateItemBodyNamingOtherBusinessIsForbidden(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{}}
	r, token := newTestRouter(t, repo)

	body := `{"business_id": "` + bizB + `", "name": "Tiramisu", "price": 7.5}`
	req := httptest.NewRequest(http.MethodPost, "/menu/items?business_id="+bizA, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, repo.items)
}

func TestNoRoleForBusinessIsForbidden(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{}}
	r, token := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/menu/items/item-x?business_id="+bizB, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateItemDefaultsEmptyCollections(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{}}
	svc := NewService(repo, noopBus{})

	it, err := svc.CreateItem(context.Background(), domain.CreateMenuItemRequest{
		BusinessID: bizA,
		Name:       "Espresso",
		Price:      2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.MenuItemVariant{}, it.Variants)
	assert.Equal(t, []domain.MenuItemModifier{}, it.Modifiers)
}

func TestCreateItemKeepsModifiers(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.MenuItem{}}
	svc := NewService(repo, noopBus{})

	it, err := svc.CreateItem(context.Background(), domain.CreateMenuItemRequest{
		BusinessID: bizA,
		Name:       "Latte",
		Price:      4,
		Modifiers: []domain.MenuItemModifier{
			{Name: "oat milk", Price: 0.5},
			{Name: "extra shot", Price: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, it.Modifiers, 2)
	assert.Equal(t, "oat milk", it.Modifiers[0].Name)
}
