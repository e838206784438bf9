package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blogd/internal/domain/models"
	"blogd/internal/lib/logger/sl"
	services "blogd/internal/services/blog_service"
	"blogd/internal/storage"
	"blogd/internal/transport/http/dto"
	"blogd/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BlogService interface {
	CreatePost(ctx context.Context, input dto.CreateBlogPostInput) (*models.BlogPost, error)
	ListPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input dto.UpdateBlogPostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type Routers struct {
	log         *slog.Logger
	BlogService BlogService
}

func NewRouter(log *slog.Logger, blogService BlogService) *Routers {
	return &Routers{
		log:         log,
		BlogService: blogService,
	}
}

// ListBlogs godoc
// @Summary List all blog posts
// @Description Returns every post as a JSON array, newest first.
// @Produce json
// @Success 200 {array} models.BlogPost
// @Failure 500 {object} response.ErrorResponse
// @Router /api/blogs [get]
func (r *Routers) ListBlogs(c echo.Context) error {
	const op = "http.routers.ListBlogs"

	posts, err := r.BlogService.ListPosts(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, posts)
}

// GetBlog godoc
// @Summary Get a blog post by id
// @Produce json
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [get]
func (r *Routers) GetBlog(c echo.Context) error {
	const op = "http.routers.GetBlog"

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidBlogID)
	}

	post, err := r.BlogService.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrBlogNotFound)
		}

		r.log.Error("failed to get post", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, post)
}

// CreateBlog godoc
// @Summary Create a blog post
// @Description Accepts JSON (imageUrl supplied directly) or multipart form
// @Description data with an optional imageFile part.
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/blogs [post]
func (r *Routers) CreateBlog(c echo.Context) error {
	const op = "http.routers.CreateBlog"

	log := r.log.With(slog.String("op", op))

	var input dto.CreateBlogPostInput

	if isMultipart(c) {
		input.Heading = c.FormValue("heading")
		input.Content = c.FormValue("content")
		input.ImageURL = c.FormValue("imageUrl")

		if file, err := c.FormFile("imageFile"); err == nil {
			input.File = file
		}
	} else {
		var req dto.CreateBlogPostRequest
		if err := c.Bind(&req); err != nil {
			log.Warn("failed to bind request", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}
		if err := c.Validate(&req); err != nil {
			log.Warn("request validation failed", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}

		input.Heading = req.Heading
		input.Content = req.Content
		input.ImageURL = req.ImageURL
	}

	post, err := r.BlogService.CreatePost(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequiredFields):
			return c.JSON(http.StatusBadRequest, response.ErrRequiredFields)
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusBadRequest, response.Error("File size exceeds limit"))
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusBadRequest, response.Error("Only image files are allowed"))
		}

		log.Error("failed to create post", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, post)
}

// UpdateBlog godoc
// @Summary Update a blog post
// @Description Partial update; omitted fields keep their stored values.
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [put]
func (r *Routers) UpdateBlog(c echo.Context) error {
	const op = "http.routers.UpdateBlog"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidBlogID)
	}

	var input dto.UpdateBlogPostInput

	if isMultipart(c) {
		heading := c.FormValue("heading")
		content := c.FormValue("content")
		imageURL := c.FormValue("imageUrl")
		input.Heading = &heading
		input.Content = &content
		input.ImageURL = &imageURL

		if file, err := c.FormFile("imageFile"); err == nil {
			input.File = file
		}
	} else {
		var req dto.UpdateBlogPostRequest
		if err := c.Bind(&req); err != nil {
			log.Warn("failed to bind request", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}
		if err := c.Validate(&req); err != nil {
			log.Warn("request validation failed", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		}

		input.Heading = req.Heading
		input.Content = req.Content
		input.ImageURL = req.ImageURL
	}

	post, err := r.BlogService.UpdatePost(c.Request().Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPostNotFound):
			return c.JSON(http.StatusNotFound, response.ErrBlogNotFound)
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusBadRequest, response.Error("File size exceeds limit"))
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusBadRequest, response.Error("Only image files are allowed"))
		}

		log.Error("failed to update post", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, post)
}

// DeleteBlog godoc
// @Summary Delete a blog post
// @Description Removes the post and best-effort deletes its stored image.
// @Produce json
// @Success 200 {object} response.DeleteResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blogs/{id} [delete]
func (r *Routers) DeleteBlog(c echo.Context) error {
	const op = "http.routers.DeleteBlog"

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidBlogID)
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), id); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrBlogNotFound)
		}

		r.log.Error("failed to delete post", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.DeleteResponse{Success: true})
}

func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
