//go:build wireinject
// +build wireinject

// File: cmd/server/wire.go
package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/app"
	"github.com/ldw80203/house-video/internal/chat"
	"github.com/ldw80203/house-video/internal/config"
	"github.com/ldw80203/house-video/internal/firebase"
	"github.com/ldw80203/house-video/internal/jobs"
	"github.com/ldw80203/house-video/internal/listing"
	"github.com/ldw80203/house-video/internal/platform/elasticsearch"
	"github.com/ldw80203/house-video/internal/platform/storage"
	"github.com/ldw80203/house-video/internal/session"
	"github.com/ldw80203/house-video/internal/shared"
	"github.com/ldw80203/house-video/internal/user"
	"github.com/ldw80203/house-video/internal/video"
)

var applicationSet = wire.NewSet(
	newDatabase,
	elasticsearch.NewClient,
	firebase.NewService,
	wire.Bind(new(shared.TokenVerifier), new(*firebase.Service)),
	storage.NewBucketStore,
	session.NewDefaultRevocationCache,
	wire.Bind(new(shared.TokenBlocklist), new(*session.RevocationCache)),

	user.NewGORMRepository,
	user.NewService,
	wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
	user.NewHandler,

	listing.NewGormRepository,
	listing.NewService,
	wire.Bind(new(listing.Service), new(*listing.ServiceImplementation)),
	listing.NewHandler,

	newChatHub,
	chat.NewGormRepository,
	chat.NewService,
	wire.Bind(new(chat.Service), new(*chat.ServiceImplementation)),
	chat.NewHandler,

	session.NewHandler,
	video.NewHandler,

	jobs.NewListingExpiryJob,
	wire.Struct(new(app.Handlers), "*"),
	app.NewRouter,
	app.NewServer,
	wire.Struct(new(application), "*"),
)

func initializeApplication(cfg *config.Config, logger *zap.Logger) (*application, func(), error) {
	wire.Build(applicationSet)
	return nil, nil, nil
}
