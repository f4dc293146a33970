package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/warble-app/warble-server/internal/api"
	"github.com/warble-app/warble-server/internal/config"
	"github.com/warble-app/warble-server/internal/logger"
	"github.com/warble-app/warble-server/internal/repositories"
)

func main() {
	logger.Init(config.Envs.Environment)

	db, err := repositories.Connect(config.Envs.DB_URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	media := config.Envs.Media
	if media.BucketName != "" {
		if err := repositories.InitMedia(
			media.AccessKeyID,
			media.SecretAccessKey,
			media.AccountID,
			media.BucketName,
			media.Region,
			media.PublicBaseURL,
		); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize media storage")
		}
	} else {
		log.Warn().Msg("No media bucket configured, image uploads disabled")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: api.SetupRouter(db),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", config.Envs.Port).Msg("Starting Warble server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}
