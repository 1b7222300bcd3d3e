package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/policy"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/serializers"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments. Every route is
// scoped to the post named in the path.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	serializer        *serializers.CommentSerializer
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, serializer *serializers.CommentSerializer) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		serializer:        serializer,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	registerRoutes(g, []route{
		{http.MethodGet, "/posts/:post_id/comments/", h.ListComments},
		{http.MethodPost, "/posts/:post_id/comments/", h.CreateComment},
		{http.MethodGet, "/posts/:post_id/comments/:id/", h.GetComment},
		{http.MethodPut, "/posts/:post_id/comments/:id/", h.UpdateComment},
		{http.MethodPatch, "/posts/:post_id/comments/:id/", h.PartialUpdateComment},
		{http.MethodDelete, "/posts/:post_id/comments/:id/", h.DeleteComment},
	}, m...)
}

// ListComments retrieves the comments of a post. An unknown post simply has none.
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	comments, err := h.commentRepository.ListComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentationList(comments))
}

// GetComment retrieves one comment of a post
func (h *CommentHandler) GetComment(c echo.Context) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentRepository.GetComment(c.Request().Context(), postID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentation(comment))
}

// CreateComment adds a comment by the caller to the post in the path
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "post_id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		return err
	}

	var payload models.CommentPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	text, err := h.serializer.Validate(&payload, false)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		AuthorID: user.ID,
		PostID:   postID,
		Text:     *text,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		// the post was deleted between the lookup and the insert
		if errors.Is(err, apperr.ErrConstraintViolation) {
			return apperr.ErrNotFound
		}
		return err
	}
	return c.JSON(http.StatusCreated, h.serializer.ToRepresentation(comment))
}

// UpdateComment replaces the text of a comment (PUT)
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	return h.update(c, false)
}

// PartialUpdateComment changes the text when present (PATCH)
func (h *CommentHandler) PartialUpdateComment(c echo.Context) error {
	return h.update(c, true)
}

func (h *CommentHandler) update(c echo.Context, partial bool) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	comment, err := h.lookup(c)
	if err != nil {
		return err
	}
	if err := policy.Authorize(user, comment); err != nil {
		return err
	}

	var payload models.CommentPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	text, err := h.serializer.Validate(&payload, partial)
	if err != nil {
		return err
	}

	changes := map[string]interface{}{}
	if text != nil {
		changes["text"] = *text
	}
	if err := h.commentRepository.UpdateComment(c.Request().Context(), comment, changes); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.serializer.ToRepresentation(comment))
}

// DeleteComment removes a comment owned by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	comment, err := h.lookup(c)
	if err != nil {
		return err
	}
	if err := policy.Authorize(user, comment); err != nil {
		return err
	}
	if err := h.commentRepository.DeleteComment(c.Request().Context(), comment.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) lookup(c echo.Context) (*models.Comment, error) {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	return h.commentRepository.GetComment(c.Request().Context(), postID, id)
}
