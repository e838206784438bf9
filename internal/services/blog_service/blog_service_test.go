package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"testing"

	"blogd/internal/domain/models"
	"blogd/internal/storage"
	"blogd/internal/storage/mediastore"
	"blogd/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockBlogRepository) DeleteBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, file *multipart.FileHeader) (*mediastore.UploadResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediastore.UploadResult), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func (m *MockMediaStore) ExtractPublicID(url string) string {
	args := m.Called(url)
	return args.String(0)
}

func TestBlogService_CreatePost(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	testFile := &multipart.FileHeader{Filename: "cover.png"}

	tests := []struct {
		name      string
		input     dto.CreateBlogPostInput
		mockSetup func(repo *MockBlogRepository, media *MockMediaStore)
		check     func(t *testing.T, post *models.BlogPost, err error)
	}{
		{
			name: "success without image",
			input: dto.CreateBlogPostInput{
				Heading: "T",
				Content: "hello world",
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Heading == "T" && p.Excerpt == "hello world" && p.ImageURL == ""
				})).Return(&models.BlogPost{ID: uuid.New(), Heading: "T", Content: "hello world", Excerpt: "hello world"}, nil).Once()
			},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				require.NoError(t, err)
				assert.Equal(t, "hello world", post.Excerpt)
				assert.Empty(t, post.ImageURL)
			},
		},
		{
			name: "missing heading",
			input: dto.CreateBlogPostInput{
				Heading: "   ",
				Content: "hello",
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				assert.ErrorIs(t, err, ErrRequiredFields)
			},
		},
		{
			name: "missing content",
			input: dto.CreateBlogPostInput{
				Heading: "T",
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				assert.ErrorIs(t, err, ErrRequiredFields)
			},
		},
		{
			name: "long content truncated to excerpt limit",
			input: dto.CreateBlogPostInput{
				Heading: "T",
				Content: strings.Repeat("x", 300),
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return len([]rune(p.Excerpt)) == 160 && strings.HasSuffix(p.Excerpt, "...")
				})).Return(&models.BlogPost{ID: uuid.New()}, nil).Once()
			},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "uploaded file wins over supplied imageUrl",
			input: dto.CreateBlogPostInput{
				Heading:  "T",
				Content:  "hello",
				ImageURL: "https://elsewhere.example/pic.jpg",
				File:     testFile,
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {
				media.On("Upload", ctx, testFile).
					Return(&mediastore.UploadResult{URL: "https://cdn.example/blogs/1.png", PublicID: "blogs/1.png"}, nil).Once()

				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.ImageURL == "https://cdn.example/blogs/1.png" && p.ImagePublicID == "blogs/1.png"
				})).Return(&models.BlogPost{ID: uuid.New(), ImageURL: "https://cdn.example/blogs/1.png"}, nil).Once()
			},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				require.NoError(t, err)
				assert.Equal(t, "https://cdn.example/blogs/1.png", post.ImageURL)
			},
		},
		{
			name: "upload failure aborts before persistence",
			input: dto.CreateBlogPostInput{
				Heading: "T",
				Content: "hello",
				File:    testFile,
			},
			mockSetup: func(repo *MockBlogRepository, media *MockMediaStore) {
				media.On("Upload", ctx, testFile).
					Return(nil, errors.New("remote unavailable")).Once()
			},
			check: func(t *testing.T, post *models.BlogPost, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockBlogRepository)
			mockMedia := new(MockMediaStore)
			tt.mockSetup(mockRepo, mockMedia)

			service := NewBlogService(log, mockRepo, mockMedia)
			post, err := service.CreatePost(ctx, tt.input)

			tt.check(t, post, err)
			mockRepo.AssertExpectations(t)
			mockMedia.AssertExpectations(t)
		})
	}
}

func TestBlogService_CreatePost_RollsBackUploadOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBlogRepository)
	mockMedia := new(MockMediaStore)
	service := NewBlogService(slog.Default(), mockRepo, mockMedia)

	testFile := &multipart.FileHeader{Filename: "cover.png"}

	mockMedia.On("Upload", ctx, testFile).
		Return(&mediastore.UploadResult{URL: "https://cdn.example/blogs/1.png", PublicID: "blogs/1.png"}, nil).Once()

	dbErr := errors.New("db unreachable")
	mockRepo.On("SaveBlogPost", ctx, mock.AnythingOfType("models.BlogPost")).
		Return(nil, dbErr).Once()

	mockMedia.On("Delete", ctx, "blogs/1.png").Return(nil).Once()

	_, err := service.CreatePost(ctx, dto.CreateBlogPostInput{
		Heading: "T",
		Content: "hello",
		File:    testFile,
	})

	// The insert error surfaces; the compensating delete ran exactly once.
	require.ErrorIs(t, err, dbErr)
	mockMedia.AssertNumberOfCalls(t, "Delete", 1)
	mockMedia.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestBlogService_CreatePost_RollbackFailureKeepsInsertError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBlogRepository)
	mockMedia := new(MockMediaStore)
	service := NewBlogService(slog.Default(), mockRepo, mockMedia)

	testFile := &multipart.FileHeader{Filename: "cover.png"}

	mockMedia.On("Upload", ctx, testFile).
		Return(&mediastore.UploadResult{URL: "u", PublicID: "p"}, nil).Once()

	dbErr := errors.New("db unreachable")
	mockRepo.On("SaveBlogPost", ctx, mock.AnythingOfType("models.BlogPost")).
		Return(nil, dbErr).Once()

	mockMedia.On("Delete", ctx, "p").Return(errors.New("also down")).Once()

	_, err := service.CreatePost(ctx, dto.CreateBlogPostInput{
		Heading: "T",
		Content: "hello",
		File:    testFile,
	})

	require.ErrorIs(t, err, dbErr)
}

func TestBlogService_DeletePost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	t.Run("deletes image by stored public id", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("DeleteBlogPost", ctx, postID).
			Return(&models.BlogPost{ID: postID, ImageURL: "https://cdn.example/blogs/1.png", ImagePublicID: "blogs/1.png"}, nil).Once()
		mockMedia.On("Delete", ctx, "blogs/1.png").Return(nil).Once()

		require.NoError(t, service.DeletePost(ctx, postID))
		mockMedia.AssertExpectations(t)
	})

	t.Run("extracts public id from legacy url", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("DeleteBlogPost", ctx, postID).
			Return(&models.BlogPost{ID: postID, ImageURL: "https://cdn.example/blogs/old.png"}, nil).Once()
		mockMedia.On("ExtractPublicID", "https://cdn.example/blogs/old.png").Return("blogs/old.png").Once()
		mockMedia.On("Delete", ctx, "blogs/old.png").Return(nil).Once()

		require.NoError(t, service.DeletePost(ctx, postID))
		mockMedia.AssertExpectations(t)
	})

	t.Run("no image, no media calls", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("DeleteBlogPost", ctx, postID).
			Return(&models.BlogPost{ID: postID}, nil).Once()

		require.NoError(t, service.DeletePost(ctx, postID))
		mockMedia.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("media delete failure is swallowed", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("DeleteBlogPost", ctx, postID).
			Return(&models.BlogPost{ID: postID, ImagePublicID: "blogs/1.png"}, nil).Once()
		mockMedia.On("Delete", ctx, "blogs/1.png").Return(errors.New("gone already")).Once()

		require.NoError(t, service.DeletePost(ctx, postID))
	})

	t.Run("not found propagates", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("DeleteBlogPost", ctx, postID).
			Return(nil, storage.ErrPostNotFound).Once()

		err := service.DeletePost(ctx, postID)
		assert.ErrorIs(t, err, storage.ErrPostNotFound)
		mockMedia.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestBlogService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	existing := &models.BlogPost{ID: postID, Heading: "old", Content: "old content", Excerpt: "old content"}

	t.Run("recomputes excerpt when content changes", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		newContent := "fresh   content\nhere"
		updated := &models.BlogPost{ID: postID, Heading: "old", Content: newContent, Excerpt: "fresh content here"}

		mockRepo.On("GetBlogPostByID", ctx, postID).Return(existing, nil).Once()
		mockRepo.On("UpdateBlogPostFields", ctx, postID, map[string]interface{}{
			"content": newContent,
			"excerpt": "fresh content here",
		}).Return(nil).Once()
		mockRepo.On("GetBlogPostByID", ctx, postID).Return(updated, nil).Once()

		post, err := service.UpdatePost(ctx, postID, dto.UpdateBlogPostInput{Content: &newContent})

		require.NoError(t, err)
		assert.Equal(t, "fresh content here", post.Excerpt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		mockRepo.On("GetBlogPostByID", ctx, postID).Return(nil, storage.ErrPostNotFound).Once()

		_, err := service.UpdatePost(ctx, postID, dto.UpdateBlogPostInput{})
		assert.ErrorIs(t, err, storage.ErrPostNotFound)
	})

	t.Run("direct imageUrl clears public id", func(t *testing.T) {
		mockRepo := new(MockBlogRepository)
		mockMedia := new(MockMediaStore)
		service := NewBlogService(slog.Default(), mockRepo, mockMedia)

		newURL := "https://elsewhere.example/pic.jpg"

		mockRepo.On("GetBlogPostByID", ctx, postID).Return(existing, nil).Once()
		mockRepo.On("UpdateBlogPostFields", ctx, postID, map[string]interface{}{
			"image_url":       newURL,
			"image_public_id": "",
		}).Return(nil).Once()
		mockRepo.On("GetBlogPostByID", ctx, postID).Return(existing, nil).Once()

		_, err := service.UpdatePost(ctx, postID, dto.UpdateBlogPostInput{ImageURL: &newURL})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestBlogService_ListPosts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockBlogRepository)
	mockMedia := new(MockMediaStore)
	service := NewBlogService(slog.Default(), mockRepo, mockMedia)

	posts := []models.BlogPost{{Heading: "b"}, {Heading: "a"}}
	mockRepo.On("GetBlogPosts", ctx).Return(posts, nil).Once()

	got, err := service.ListPosts(ctx)

	require.NoError(t, err)
	assert.Equal(t, posts, got)
}
