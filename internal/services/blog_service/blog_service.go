package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogd/internal/domain/models"
	"blogd/internal/lib/excerpt"
	"blogd/internal/lib/logger/sl"
	"blogd/internal/repository"
	"blogd/internal/storage/mediastore"
	"blogd/internal/transport/http/dto"

	"github.com/google/uuid"
)

// ErrRequiredFields is returned when heading or content is empty after
// trimming. The transport maps it to 400 verbatim.
var ErrRequiredFields = errors.New("heading and content are required")

type BlogService struct {
	log   *slog.Logger
	repo  repository.BlogRepository
	media mediastore.MediaStore
}

func NewBlogService(log *slog.Logger, repo repository.BlogRepository, media mediastore.MediaStore) *BlogService {
	return &BlogService{
		log:   log,
		repo:  repo,
		media: media,
	}
}

// CreatePost validates the input, uploads the image when a file is present
// and persists the post. If the insert fails after a successful upload the
// uploaded image is deleted again, best-effort; that failure never replaces
// the insert error.
func (s *BlogService) CreatePost(ctx context.Context, input dto.CreateBlogPostInput) (*models.BlogPost, error) {
	const op = "blog_service.CreatePost"
	log := s.log.With(slog.String("op", op))

	heading := strings.TrimSpace(input.Heading)
	content := strings.TrimSpace(input.Content)
	if heading == "" || content == "" {
		log.Warn("heading or content missing")
		return nil, ErrRequiredFields
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	imagePublicID := ""

	if input.File != nil {
		res, err := s.media.Upload(ctx, input.File)
		if err != nil {
			log.Error("failed to upload image", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		// The uploaded file wins over a directly supplied imageUrl.
		imageURL = res.URL
		imagePublicID = res.PublicID
		log.Info("image uploaded", slog.String("public_id", imagePublicID))
	}

	post := models.BlogPost{
		Heading:       heading,
		Content:       content,
		Excerpt:       excerpt.Generate(content),
		ImageURL:      imageURL,
		ImagePublicID: imagePublicID,
	}

	created, err := s.repo.SaveBlogPost(ctx, post)
	if err != nil {
		if imagePublicID != "" {
			log.Error("insert failed, rolling back image upload", sl.Err(err))
			if delErr := s.media.Delete(ctx, imagePublicID); delErr != nil {
				log.Warn("failed to delete uploaded image",
					slog.String("public_id", imagePublicID), sl.Err(delErr))
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.String("post_id", created.ID.String()))
	return created, nil
}

// ListPosts returns every post, newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	const op = "blog_service.ListPosts"

	posts, err := s.repo.GetBlogPosts(ctx)
	if err != nil {
		s.log.Error("failed to list posts", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (s *BlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "blog_service.GetPostByID"

	post, err := s.repo.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// UpdatePost applies a partial update. The excerpt is recomputed whenever
// content changes; an uploaded file wins over a supplied imageUrl; a directly
// supplied imageUrl clears the stored public id. Replacing an image does not
// delete the old media object.
func (s *BlogService) UpdatePost(ctx context.Context, id uuid.UUID, input dto.UpdateBlogPostInput) (*models.BlogPost, error) {
	const op = "blog_service.UpdatePost"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))

	if _, err := s.repo.GetBlogPostByID(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})

	if input.Heading != nil {
		if heading := strings.TrimSpace(*input.Heading); heading != "" {
			updates["heading"] = heading
		}
	}
	if input.Content != nil {
		if content := strings.TrimSpace(*input.Content); content != "" {
			updates["content"] = content
			updates["excerpt"] = excerpt.Generate(content)
		}
	}
	if input.ImageURL != nil {
		if imageURL := strings.TrimSpace(*input.ImageURL); imageURL != "" {
			updates["image_url"] = imageURL
			updates["image_public_id"] = ""
		}
	}

	if input.File != nil {
		res, err := s.media.Upload(ctx, input.File)
		if err != nil {
			log.Error("failed to upload image", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updates["image_url"] = res.URL
		updates["image_public_id"] = res.PublicID
	}

	if err := s.repo.UpdateBlogPostFields(ctx, id, updates); err != nil {
		if publicID, ok := updates["image_public_id"].(string); ok && publicID != "" {
			log.Error("update failed, rolling back image upload", sl.Err(err))
			if delErr := s.media.Delete(ctx, publicID); delErr != nil {
				log.Warn("failed to delete uploaded image",
					slog.String("public_id", publicID), sl.Err(delErr))
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post updated")
	return s.repo.GetBlogPostByID(ctx, id)
}

// DeletePost removes the post and then best-effort deletes its image from the
// media store. Cleanup failure is logged and never surfaces to the caller;
// the record is already gone, an orphaned remote image is acceptable.
func (s *BlogService) DeletePost(ctx context.Context, id uuid.UUID) error {
	const op = "blog_service.DeletePost"
	log := s.log.With(slog.String("op", op), slog.String("post_id", id.String()))

	deleted, err := s.repo.DeleteBlogPost(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	publicID := deleted.ImagePublicID
	if publicID == "" && deleted.ImageURL != "" {
		// Legacy records only stored the URL.
		publicID = s.media.ExtractPublicID(deleted.ImageURL)
	}

	if publicID != "" {
		if delErr := s.media.Delete(ctx, publicID); delErr != nil {
			log.Warn("failed to delete image from media store",
				slog.String("public_id", publicID), sl.Err(delErr))
		}
	}

	log.Info("post deleted")
	return nil
}
