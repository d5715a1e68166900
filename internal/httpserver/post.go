package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/middleware"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/internal/util"
	"github.com/Skotchmaster/blog_platform/pkg/logging"
)

type PostHTTP struct {
	Svc *service.PostService
}

func (h *PostHTTP) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.list")

	publishedOnly := c.QueryParam("published") == "true"
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, posts, err := h.Svc.List(ctx, publishedOnly, offset, limit)
	if err != nil {
		l.Error("post_list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch posts")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count":       total,
		"posts":       posts,
		"page":        page,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

func (h *PostHTTP) SearchPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.search")

	q := c.QueryParam("q")
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	posts, err := h.Svc.SearchPosts(ctx, q, from, limit)
	if err != nil {
		l.Warn("post_search_failed", "error", err)
		return httpError(err, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(posts),
		"posts": posts,
	})
}

func (h *PostHTTP) GetPostBySlug(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.Svc.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return httpError(err, "post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

func (h *PostHTTP) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.create")

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CoverImage *string  `json:"coverImage"`
		Tags       []string `json:"tags"`
		Published  bool     `json:"published"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("post_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Create(ctx, service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	}, userID)
	if err != nil {
		return httpError(err, "failed to create post")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *PostHTTP) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.update")

	userID, ok := middleware.UserIDFromContext(c)
	role, okRole := middleware.RoleFromContext(c)
	if !ok || !okRole {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("post_update_error", "status", 400, "reason", "id is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req struct {
		Title      *string   `json:"title"`
		Content    *string   `json:"content"`
		CoverImage *string   `json:"coverImage"`
		Tags       *[]string `json:"tags"`
		Published  *bool     `json:"published"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("post_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	post, err := h.Svc.Update(ctx, id, service.UpdatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	}, userID, role)
	if err != nil {
		return httpError(err, "post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

func (h *PostHTTP) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.delete")

	userID, ok := middleware.UserIDFromContext(c)
	role, okRole := middleware.RoleFromContext(c)
	if !ok || !okRole {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("post_delete_error", "status", 400, "reason", "id is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.Svc.Delete(ctx, id, userID, role); err != nil {
		return httpError(err, "post not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
