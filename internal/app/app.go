package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "blogd/internal/app/http"
	"blogd/internal/config"
	"blogd/internal/repository"
	services "blogd/internal/services/blog_service"
	"blogd/internal/storage/mediastore"
	"blogd/internal/storage/postgresql"
	httprouters "blogd/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Storage    *postgresql.Storage
}

// New wires the whole application: one pool, one media store, one service.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(storage.Pool())

	media, uploadsDir, err := buildMediaStore(ctx, cfg)
	if err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blogService := services.NewBlogService(log, repo.Blog, media)
	routers := httprouters.NewRouter(log, blogService)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers, uploadsDir)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Storage:    storage,
	}, nil
}

func (a *App) Stop() {
	_ = a.HTTPServer.Stop()
	a.Storage.Stop()
}

func buildMediaStore(ctx context.Context, cfg *config.Config) (mediastore.MediaStore, string, error) {
	switch cfg.MediaStore.Backend {
	case "local":
		local, err := mediastore.NewLocalStore(
			cfg.MediaStore.Local.BaseDir,
			cfg.MediaStore.Local.BaseURL,
			cfg.MediaStore.MaxFileSize,
		)
		if err != nil {
			return nil, "", err
		}
		return local, local.BaseDir(), nil
	case "s3", "":
		store, err := mediastore.NewS3Store(ctx, mediastore.S3Config{
			Region:          cfg.MediaStore.S3.Region,
			Bucket:          cfg.MediaStore.S3.Bucket,
			AccessKeyID:     cfg.MediaStore.S3.AccessKeyID,
			SecretAccessKey: cfg.MediaStore.S3.SecretAccessKey,
			Endpoint:        cfg.MediaStore.S3.Endpoint,
			UsePathStyle:    cfg.MediaStore.S3.UsePathStyle,
			PublicBaseURL:   cfg.MediaStore.S3.PublicBaseURL,
			MaxFileSize:     cfg.MediaStore.MaxFileSize,
		})
		return store, "", err
	default:
		return nil, "", fmt.Errorf("unknown media store backend: %s", cfg.MediaStore.Backend)
	}
}
