package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blogd/internal/domain/models"
	"blogd/internal/storage"

	"github.com/google/uuid"
)

// MemoryBlogRepo is the in-memory BlogRepository backend. The mutex makes
// delete-by-id atomic per id: of two concurrent deletes only one gets the
// record, the other sees not-found.
type MemoryBlogRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.BlogPost
	order []uuid.UUID
}

func NewMemoryBlogRepository() *MemoryBlogRepo {
	return &MemoryBlogRepo{
		posts: make(map[uuid.UUID]models.BlogPost),
	}
}

func (m *MemoryBlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now

	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)

	stored := post
	return &stored, nil
}

// GetBlogPosts returns a snapshot ordered newest first; equal timestamps keep
// insertion order.
func (m *MemoryBlogRepo) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]models.BlogPost, 0, len(m.order))
	for _, id := range m.order {
		posts = append(posts, m.posts[id])
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (m *MemoryBlogRepo) GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.memory_repository.GetBlogPostByID"

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return &post, nil
}

func (m *MemoryBlogRepo) UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.memory_repository.UpdateBlogPostFields"

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	for field, value := range updates {
		switch field {
		case "heading":
			post.Heading = value.(string)
		case "content":
			post.Content = value.(string)
		case "excerpt":
			post.Excerpt = value.(string)
		case "image_url":
			post.ImageURL = value.(string)
		case "image_public_id":
			post.ImagePublicID = value.(string)
		default:
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
	}

	post.UpdatedAt = time.Now().UTC()
	m.posts[id] = post

	return nil
}

func (m *MemoryBlogRepo) DeleteBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.memory_repository.DeleteBlogPost"

	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	delete(m.posts, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return &post, nil
}
