package handlers

import (
	"strconv"

	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// maxPageLimit caps the limit query parameter.
const maxPageLimit = 1000

// pageResponse is the limit/offset envelope.
type pageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// parsePage reads limit and offset. Without a valid positive limit the list is
// not paginated at all.
func parsePage(c echo.Context) (repositories.Page, bool) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return repositories.Page{}, false
	}
	limit = min(limit, maxPageLimit)
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return repositories.Page{Limit: limit, Offset: offset}, true
}

func newPageResponse(c echo.Context, page repositories.Page, count int64, results interface{}) pageResponse {
	resp := pageResponse{Count: count, Results: results}
	// offset+limit < count, written so it cannot overflow
	if int64(page.Offset) < count-int64(page.Limit) {
		next := pageURL(c, page.Limit, page.Offset+page.Limit)
		resp.Next = &next
	}
	if page.Offset > 0 {
		prev := pageURL(c, page.Limit, max(page.Offset-page.Limit, 0))
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c echo.Context, limit, offset int) string {
	req := c.Request()
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	return c.Scheme() + "://" + req.Host + req.URL.Path + "?" + q.Encode()
}
