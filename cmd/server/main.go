// File: cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ldw80203/house-video/internal/app"
	"github.com/ldw80203/house-video/internal/chat"
	"github.com/ldw80203/house-video/internal/config"
	"github.com/ldw80203/house-video/internal/listing"
	"github.com/ldw80203/house-video/internal/platform/database"
	"github.com/ldw80203/house-video/internal/platform/elasticsearch"
	applogger "github.com/ldw80203/house-video/internal/platform/logger"
)

// application bundles the wired server with the dependencies the
// subcommands need directly.
type application struct {
	server   *app.Server
	db       *gorm.DB
	es       *elasticsearch.ESClientWrapper
	listings listing.Service
}

// newDatabase opens the GORM connection and hands wire a cleanup that
// closes it.
func newDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db) }, nil
}

func newChatHub(cfg *config.Config, logger *zap.Logger) *chat.Hub {
	return chat.NewHub(cfg.ChatStreamBufferSize, logger.Named("chat_hub"))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	application, cleanup, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	if err := app.AutoMigrate(application.db); err != nil {
		logger.Fatal("Database migration failed", zap.Error(err))
	}
	if err := elasticsearch.CreateListingsIndexIfNotExists(application.es, logger); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	if len(os.Args) > 1 && os.Args[1] == "sync-listings" {
		runSyncListings(application, logger)
		return
	}

	go func() {
		if err := application.server.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received.")

	if err := application.server.Shutdown(context.Background()); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// runSyncListings reindexes every listing into the search index and exits.
func runSyncListings(application *application, logger *zap.Logger) {
	synced, err := application.listings.SyncAllToSearch(context.Background())
	if err != nil {
		logger.Fatal("Listing search sync failed", zap.Error(err))
	}
	logger.Info("Listing search sync finished", zap.Int("synced", synced))
}
