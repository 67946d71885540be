package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/blogem/access-log-viewer/archive"
	"github.com/blogem/access-log-viewer/authenticator"
	"github.com/blogem/access-log-viewer/config"
	"github.com/blogem/access-log-viewer/controllers"
	"github.com/blogem/access-log-viewer/database"
	"github.com/blogem/access-log-viewer/logger"
	"github.com/blogem/access-log-viewer/repositories"
	"github.com/blogem/access-log-viewer/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	store, err := database.Initialize(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.Storage.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	repos := repositories.NewRepositories(store.DB())
	srvs := services.NewServices(repos)

	uploads, err := newArchive(ctx, cfg.Upload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up upload archive")
	}

	var provider authenticator.Provider
	if cfg.Auth.Enabled() {
		provider, err = authenticator.NewOpenIDProvider(ctx, cfg.Auth)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize OpenID provider")
		}
		log.Info().Str("domain", cfg.Auth.Domain).Msg("operator login enabled for uploads")
	}

	ctrl := controllers.NewControllers(srvs, controllers.Options{
		Archive:        uploads,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Auth:           provider,
	})

	r, err := setupRouter(cfg, ctrl, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", "http://localhost:"+cfg.Server.Port).
			Str("db", cfg.Storage.DBPath).
			Str("uploads", cfg.Upload.Dir).
			Msg("access log viewer starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

// newArchive keeps uploads on local disk and, when a bucket is configured, in S3 too
func newArchive(ctx context.Context, cfg config.UploadConfig) (archive.Store, error) {
	local := archive.NewLocalStore(cfg.Dir)
	if !cfg.ArchiveToS3() {
		return local, nil
	}

	s3Store, err := archive.NewS3Store(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		return nil, err
	}
	log.Info().Str("bucket", cfg.S3Bucket).Str("prefix", cfg.S3Prefix).Msg("archiving uploads to s3")

	return archive.Multi{local, s3Store}, nil
}
