package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogd/internal/domain/models"
	"blogd/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const blogTable = "blog_posts"

var blogColumns = []string{
	"id", "heading", "content", "excerpt",
	"image_url", "image_public_id",
	"created_at", "updated_at",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveBlogPost inserts the post with both timestamps set to the same instant
// and returns the stored record with the database-assigned id.
func (b *BlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error) {
	const op = "repository.blog_repository.SaveBlogPost"

	now := time.Now().UTC()

	query, args, err := b.sb.Insert(blogTable).
		Columns(
			"heading",
			"content",
			"excerpt",
			"image_url",
			"image_public_id",
			"created_at",
			"updated_at",
		).
		Values(
			post.Heading,
			post.Content,
			post.Excerpt,
			post.ImageURL,
			post.ImagePublicID,
			now,
			now,
		).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created models.BlogPost
	if err := scanBlogPost(b.db.QueryRow(ctx, query, args...), &created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

// GetBlogPosts returns every post, newest first. The seq column breaks
// created_at ties by insertion order.
func (b *BlogRepo) GetBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPosts"

	query, args, err := b.sb.Select(blogColumns...).
		From(blogTable).
		OrderBy("created_at DESC", "seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		var post models.BlogPost
		if err := scanBlogPost(rows, &post); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func (b *BlogRepo) GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostByID"

	query, args, err := b.sb.Select(blogColumns...).
		From(blogTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var post models.BlogPost
	if err := scanBlogPost(b.db.QueryRow(ctx, query, args...), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

// UpdateBlogPostFields applies a partial update and refreshes updated_at.
func (b *BlogRepo) UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.blog_repository.UpdateBlogPostFields"

	allowedFields := map[string]bool{
		"heading":         true,
		"content":         true,
		"excerpt":         true,
		"image_url":       true,
		"image_public_id": true,
	}

	updateBuilder := b.sb.Update(blogTable).
		Set("updated_at", time.Now().UTC())

	for field, value := range updates {
		if !allowedFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

// DeleteBlogPost locates and removes the record in a single statement, so two
// concurrent deletes of the same id cannot both succeed. The removed record is
// returned for image cleanup.
func (b *BlogRepo) DeleteBlogPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.blog_repository.DeleteBlogPost"

	query, args, err := b.sb.Delete(blogTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var deleted models.BlogPost
	if err := scanBlogPost(b.db.QueryRow(ctx, query, args...), &deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &deleted, nil
}

func columnList() string {
	return strings.Join(blogColumns, ", ")
}

func scanBlogPost(row pgx.Row, post *models.BlogPost) error {
	return row.Scan(
		&post.ID,
		&post.Heading,
		&post.Content,
		&post.Excerpt,
		&post.ImageURL,
		&post.ImagePublicID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}
