package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/middleware"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
)

type CommentHTTP struct {
	Svc *service.CommentService
}

func (h *CommentHTTP) ListByPost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.list")

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		l.Warn("comment_list_error", "status", 400, "reason", "post id is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	comments, err := h.Svc.ListByPost(ctx, postID)
	if err != nil {
		l.Error("comment_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch comments")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":    len(comments),
		"comments": comments,
	})
}

func (h *CommentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.create")

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		l.Warn("comment_create_error", "status", 400, "reason", "post id is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("comment_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	comment, err := h.Svc.Create(ctx, postID, userID, req.Text)
	if err != nil {
		return httpError(err, "post not found")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

func (h *CommentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.delete")

	userID, ok := middleware.UserIDFromContext(c)
	role, okRole := middleware.RoleFromContext(c)
	if !ok || !okRole {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		l.Warn("comment_delete_error", "status", 400, "reason", "comment id is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	if err := h.Svc.Delete(ctx, id, userID, role); err != nil {
		return httpError(err, "comment not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
