package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	Name string `json:"name"`
}

// capturingQueryService records the filters and sort field passed down so
// tests can assert what survives the controller's whitelist.
type capturingQueryService struct {
	filters map[string]interface{}
	sort    string
}

func (s *capturingQueryService) Get(ctx context.Context, id string, includes ...string) (*member, error) {
	return &member{Name: id}, nil
}

func (s *capturingQueryService) List(ctx context.Context, page, limit int, filters map[string]interface{}, sortField, order string, includes ...string) ([]member, int64, error) {
	s.filters = filters
	s.sort = sortField
	return nil, 0, nil
}

func listContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestListFiltersLimitedToWhitelist(t *testing.T) {
	svc := &capturingQueryService{}
	ctrl := NewQueryController[member](svc, "status", "role_id")

	ctx := listContext(t, "status=ACTIVE&password=secret&role_id=r1&page=1&limit=10")
	require.NoError(t, ctrl.List(ctx))

	assert.Equal(t, map[string]interface{}{
		"status":  "ACTIVE",
		"role_id": "r1",
	}, svc.filters)
}

func TestListSortLimitedToWhitelist(t *testing.T) {
	svc := &capturingQueryService{}
	ctrl := NewQueryController[member](svc, "status")

	ctx := listContext(t, "sort=password&order=asc")
	require.NoError(t, ctrl.List(ctx))
	assert.Equal(t, "", svc.sort)

	ctx = listContext(t, "sort=created_at&order=desc")
	require.NoError(t, ctrl.List(ctx))
	assert.Equal(t, "created_at", svc.sort)
}
