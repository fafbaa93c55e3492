// @title Conference Central API
// @version 1.0
// @description Conference organization and registration API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/queue"
	delivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("required environment variable is not set", "key", "JWT_SECRET")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, "conferencecentral", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", "err", err)
		}
	}()

	// ---- Entity store ----
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	conferences := postgres.NewConferenceRepository(db)
	sessions := postgres.NewSessionRepository(db)
	speakers := postgres.NewSpeakerRepository(db)
	profiles := postgres.NewProfileRepository(db)
	tx := postgres.NewTransactor(db)

	sharedCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	// ---- Services ----
	retry := services.RetryPolicy{MaxTries: cfg.Tx.MaxRetries, InitialInterval: cfg.Tx.InitialInterval}
	refresher := services.NewRefresher(conferences, sessions, sharedCache, logger)

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipTLS,
		},
	}, logger)
	emails := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	tasks := queue.New(cfg.Queue.Workers, cfg.Queue.Buffer, logger)
	tasks.Handle(domain.TaskUpdateFeaturedSpeaker, services.FeaturedSpeakerTaskHandler(refresher))
	tasks.Handle(domain.TaskSendConfirmationEmail, services.ConfirmationEmailTaskHandler(emails))

	conferenceService := services.NewConferenceService(conferences, profiles, tx, tasks, retry, logger)
	sessionService := services.NewSessionService(conferences, sessions, speakers, tasks, logger)
	speakerService := services.NewSpeakerService(speakers)
	profileService := services.NewProfileService(profiles, sessions, tx, retry, logger)
	inventory := services.NewInventoryService(tx, retry, logger)

	// ---- HTTP ----
	router := delivery.NewRouter(delivery.Controllers{
		Conferences: controllers.NewConferenceController(logger, conferenceService, inventory, refresher),
		Sessions:    controllers.NewSessionController(logger, sessionService),
		Speakers:    controllers.NewSpeakerController(logger, speakerService),
		Profiles:    controllers.NewProfileController(logger, profileService),
	}, auth.NewJWT(cfg.JWTSecret), logger, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           http.TimeoutHandler(router, cfg.ContextTimeout, "request timed out"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		return tasks.Run(gctx)
	})
	g.Go(func() error {
		services.RunEvery(gctx, cfg.AnnouncementInterval, "announcement", logger, services.AnnouncementSweep(refresher))
		return nil
	})
	return g.Wait()
}

func newCache(ctx context.Context, cfg config.CacheConfig) (domain.Cache, error) {
	switch cfg.Backend {
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, err
		}
		return cache.NewDynamoDB(awsdynamodb.NewFromConfig(awsCfg), cfg.Table)
	case "memory", "":
		return cache.NewMemory(), nil
	}
	return nil, errors.New("unknown CACHE_BACKEND " + cfg.Backend)
}
