package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"blogd/internal/domain/models"
	"blogd/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlogRepo_SaveAssignsIDAndTimestamps(t *testing.T) {
	repo := NewMemoryBlogRepository()

	before := time.Now().UTC()
	created, err := repo.SaveBlogPost(context.Background(), models.BlogPost{
		Heading: "T",
		Content: "hello",
		Excerpt: "hello",
	})
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.False(t, created.CreatedAt.Before(before))
	assert.False(t, created.CreatedAt.After(after))
}

func TestMemoryBlogRepo_ListNewestFirst(t *testing.T) {
	repo := NewMemoryBlogRepository()
	ctx := context.Background()

	first, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "first", Content: "c"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "second", Content: "c"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	third, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "third", Content: "c"})
	require.NoError(t, err)

	posts, err := repo.GetBlogPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, third.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
	assert.Equal(t, first.ID, posts[2].ID)
}

func TestMemoryBlogRepo_GetByID(t *testing.T) {
	repo := NewMemoryBlogRepository()
	ctx := context.Background()

	created, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "T", Content: "c"})
	require.NoError(t, err)

	got, err := repo.GetBlogPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Heading, got.Heading)

	_, err = repo.GetBlogPostByID(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestMemoryBlogRepo_UpdateFields(t *testing.T) {
	repo := NewMemoryBlogRepository()
	ctx := context.Background()

	created, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "T", Content: "c", Excerpt: "c"})
	require.NoError(t, err)

	err = repo.UpdateBlogPostFields(ctx, created.ID, map[string]interface{}{
		"heading": "T2",
		"content": "c2",
		"excerpt": "c2",
	})
	require.NoError(t, err)

	got, err := repo.GetBlogPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Heading)
	assert.Equal(t, "c2", got.Content)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	err = repo.UpdateBlogPostFields(ctx, uuid.New(), map[string]interface{}{"heading": "x"})
	assert.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestMemoryBlogRepo_DeleteReturnsRecord(t *testing.T) {
	repo := NewMemoryBlogRepository()
	ctx := context.Background()

	created, err := repo.SaveBlogPost(ctx, models.BlogPost{
		Heading:       "T",
		Content:       "c",
		ImagePublicID: "blogs/1.png",
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteBlogPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "blogs/1.png", deleted.ImagePublicID)

	_, err = repo.DeleteBlogPost(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrPostNotFound)

	posts, err := repo.GetBlogPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMemoryBlogRepo_ConcurrentDeleteSameID(t *testing.T) {
	repo := NewMemoryBlogRepository()
	ctx := context.Background()

	created, err := repo.SaveBlogPost(ctx, models.BlogPost{Heading: "T", Content: "c"})
	require.NoError(t, err)

	const callers = 16

	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DeleteBlogPost(ctx, created.ID)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	succeeded := 0
	notFound := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, storage.ErrPostNotFound)
			notFound++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, notFound)
}
