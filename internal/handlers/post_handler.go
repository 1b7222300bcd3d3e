package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/serializers"
	"github.com/anonto42/yatube/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	serializer     *serializers.PostSerializer
	media          storage.ObjectStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, serializer *serializers.PostSerializer, media storage.ObjectStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		serializer:     serializer,
		media:          media,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodGet, "/posts/", h.ListPosts},
		{http.MethodPost, "/posts/", h.CreatePost},
		{http.MethodGet, "/posts/:id/", h.GetPost},
		{http.MethodPut, "/posts/:id/", h.UpdatePost},
		{http.MethodPatch, "/posts/:id/", h.PartialUpdatePost},
		{http.MethodDelete, "/posts/:id/", h.DeletePost},
	}, m...)
}

// ListPosts returns posts newest first, paginated when limit is given.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, paginated := parsePage(c)
	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	results := h.serializer.ToRepresentationList(posts)
	if !paginated {
		return c.JSON(http.StatusOK, results)
	}
	return c.JSON(http.StatusOK, newPageResponse(c, page, total, results))
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentation(post))
}

// CreatePost publishes a post authored by the caller.
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var payload models.PostPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}

	ctx := c.Request().Context()
	in, err := h.serializer.Validate(ctx, &payload, false)
	if err != nil {
		return err
	}

	post := &models.Post{
		AuthorID: user.ID,
		Text:     *in.Text,
		GroupID:  in.GroupID,
	}
	if in.Image != nil {
		if err := h.media.Put(ctx, in.Image.Key, in.Image.ContentType, in.Image.Data); err != nil {
			return err
		}
		post.Image = &in.Image.Key
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		h.removeImage(ctx, post.Image)
		return err
	}
	return c.JSON(http.StatusCreated, h.serializer.ToRepresentation(post))
}

// UpdatePost replaces the writable fields of a post (PUT).
func (h *PostHandler) UpdatePost(c echo.Context) error {
	return h.update(c, false)
}

// PartialUpdatePost changes only the fields present in the body (PATCH).
func (h *PostHandler) PartialUpdatePost(c echo.Context) error {
	return h.update(c, true)
}

func (h *PostHandler) update(c echo.Context, partial bool) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(user, post); err != nil {
		return err
	}

	var payload models.PostPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	in, err := h.serializer.Validate(ctx, &payload, partial)
	if err != nil {
		return err
	}

	changes := map[string]interface{}{}
	if in.Text != nil {
		changes["text"] = *in.Text
	}
	if in.HasGroup {
		if in.GroupID != nil {
			changes["group_id"] = *in.GroupID
		} else {
			changes["group_id"] = nil
		}
	}

	oldImage := post.Image
	var newImage *string
	if in.HasImage {
		if in.Image != nil {
			if err := h.media.Put(ctx, in.Image.Key, in.Image.ContentType, in.Image.Data); err != nil {
				return err
			}
			newImage = &in.Image.Key
			changes["image"] = in.Image.Key
		} else {
			changes["image"] = nil
		}
	}

	if err := h.postRepository.UpdatePost(ctx, post, changes); err != nil {
		h.removeImage(ctx, newImage)
		return err
	}
	if in.HasImage && oldImage != nil && (newImage == nil || *newImage != *oldImage) {
		h.removeImage(ctx, oldImage)
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentation(post))
}

// DeletePost removes a post, its comments and its stored image.
func (h *PostHandler) DeletePost(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(user, post); err != nil {
		return err
	}
	if err := h.postRepository.DeletePost(ctx, post.ID); err != nil {
		return err
	}
	h.removeImage(ctx, post.Image)
	return c.NoContent(http.StatusNoContent)
}

// removeImage drops an object the database no longer references. Failures are
// logged only; the row change has already been decided.
func (h *PostHandler) removeImage(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := h.media.Remove(ctx, *key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		log.Warn().Err(err).Str("key", *key).Msg("Failed to remove image")
	}
}
