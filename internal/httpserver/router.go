package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/blog_platform/internal/middleware"
	"github.com/Skotchmaster/blog_platform/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	PostHandler    *PostHTTP
	CommentHandler *CommentHTTP
	Session        *middleware.SessionMiddleware

	ClientURL string
	StaticDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{d.ClientURL},
		AllowCredentials: true,
	}))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout, d.Session.RequireSession)
	auth.GET("/me", d.AuthHandler.Me, d.Session.RequireSession)

	posts := e.Group("/posts")
	posts.GET("", d.PostHandler.ListPosts)
	posts.GET("/search", d.PostHandler.SearchPosts)
	posts.GET("/:slug", d.PostHandler.GetPostBySlug)

	postAdmin := posts.Group("", d.Session.RequireSession, middleware.Authorize(models.RoleAdmin))
	postAdmin.POST("", d.PostHandler.CreatePost)
	postAdmin.PUT("/:id", d.PostHandler.UpdatePost)
	postAdmin.DELETE("/:id", d.PostHandler.DeletePost)

	comments := e.Group("/comments")
	comments.GET("/:postId", d.CommentHandler.ListByPost)
	comments.POST("/:postId", d.CommentHandler.Create, d.Session.RequireSession)
	comments.DELETE("/:commentId", d.CommentHandler.Delete, d.Session.RequireSession)

	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	}
}
