package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   interface{}
	}{
		{"validation", apperr.NewValidationError("text", "This field is required."), http.StatusBadRequest,
			map[string][]string{"text": {"This field is required."}}},
		{"constraint", fmt.Errorf("%w: UNIQUE constraint failed", apperr.ErrConstraintViolation), http.StatusBadRequest,
			map[string][]string{apperr.NonFieldErrors: {"The request conflicts with existing data."}}},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized, detail(apperr.ErrUnauthorized.Error())},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, detail(apperr.ErrForbidden.Error())},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, detail("Not found.")},
		{"echo error", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, detail("Method Not Allowed")},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, detail("A server error occurred.")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := renderError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query     string
		page      repositories.Page
		paginated bool
	}{
		{"", repositories.Page{}, false},
		{"?offset=5", repositories.Page{}, false},
		{"?limit=abc", repositories.Page{}, false},
		{"?limit=0", repositories.Page{}, false},
		{"?limit=2", repositories.Page{Limit: 2}, true},
		{"?limit=2&offset=4", repositories.Page{Limit: 2, Offset: 4}, true},
		{"?limit=2&offset=-1", repositories.Page{Limit: 2}, true},
		{"?limit=9223372036854775807&offset=1", repositories.Page{Limit: maxPageLimit, Offset: 1}, true},
		{"?limit=99999999999999999999", repositories.Page{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, paginated := parsePage(newContext("/api/v1/posts/" + tt.query))
			assert.Equal(t, tt.paginated, paginated)
			assert.Equal(t, tt.page, page)
		})
	}
}

func TestPageResponseLinks(t *testing.T) {
	c := newContext("/api/v1/posts/?limit=2&offset=2")

	resp := newPageResponse(c, repositories.Page{Limit: 2, Offset: 2}, 5, []int{3, 4})
	require.NotNil(t, resp.Next)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "http://example.com/api/v1/posts/?limit=2&offset=4", *resp.Next)
	assert.Equal(t, "http://example.com/api/v1/posts/?limit=2", *resp.Previous)

	first := newPageResponse(c, repositories.Page{Limit: 2}, 5, nil)
	assert.Nil(t, first.Previous)
	require.NotNil(t, first.Next)

	last := newPageResponse(c, repositories.Page{Limit: 2, Offset: 4}, 5, nil)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Equal(t, "http://example.com/api/v1/posts/?limit=2&offset=2", *last.Previous)

	far := newPageResponse(c, repositories.Page{Limit: maxPageLimit, Offset: math.MaxInt}, 5, nil)
	assert.Nil(t, far.Next, "an offset past the end has no next page")
	require.NotNil(t, far.Previous)
	assert.Contains(t, *far.Previous, "offset="+strconv.Itoa(math.MaxInt-maxPageLimit))
}

func TestPathID(t *testing.T) {
	c := newContext("/")
	c.SetParamNames("id")
	for _, bad := range []string{"", "0", "-1", "abc"} {
		c.SetParamValues(bad)
		_, err := pathID(c, "id")
		assert.ErrorIs(t, err, apperr.ErrNotFound, bad)
	}
	c.SetParamValues("42")
	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}
