package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves stored post images
type MediaHandler struct {
	store storage.ObjectStore
}

func NewMediaHandler(store storage.ObjectStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// RegisterMediaRoutes mounts the object store under g.
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodGet, "/*", h.GetObject},
	}, m...)
}

func (h *MediaHandler) GetObject(c echo.Context) error {
	key := strings.Trim(c.Param("*"), "/")
	if key == "" {
		return apperr.ErrNotFound
	}
	rc, err := h.store.Open(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, mimetype.Detect(data).String(), data)
}
