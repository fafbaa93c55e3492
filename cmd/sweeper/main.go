// Command sweeper refreshes the nearly sold out announcement when invoked by a
// scheduled CloudWatch event. It shares the entity store and the DynamoDB
// cache with the API.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/lib/pq"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

type handler struct {
	refresher domain.Refresher
	logger    *slog.Logger
}

func (h *handler) Handle(ctx context.Context, event events.CloudWatchEvent) error {
	msg, err := h.refresher.RefreshAnnouncement(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "announcement refresh failed", "event_id", event.ID, "err", err)
		return err
	}
	h.logger.InfoContext(ctx, "announcement refreshed", "event_id", event.ID, "empty", msg == "")
	return nil
}

func main() {
	ctx := context.Background()
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Cache.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}
	sharedCache, err := cache.NewDynamoDB(awsdynamodb.NewFromConfig(awsCfg), cfg.Cache.Table)
	if err != nil {
		logger.Error("failed to create cache client", "err", err)
		os.Exit(1)
	}

	h := &handler{
		refresher: services.NewRefresher(
			postgres.NewConferenceRepository(db),
			postgres.NewSessionRepository(db),
			sharedCache,
			logger,
		),
		logger: logger,
	}
	lambda.Start(h.Handle)
}
