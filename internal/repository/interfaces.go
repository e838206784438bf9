package repository

import (
	"context"

	"blogd/internal/domain/models"

	"github.com/google/uuid"
)

// BlogRepository is CRUD over the blog_posts collection. Implementations
// assign id and both timestamps on save, list newest first, and delete
// atomically per id, returning the removed record.
type BlogRepository interface {
	SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error)
	GetBlogPosts(ctx context.Context) ([]models.BlogPost, error)
	GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
}
