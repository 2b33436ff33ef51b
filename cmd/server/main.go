package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/tunefolio/tunefolio/internal/config"
	"github.com/tunefolio/tunefolio/internal/database"
	"github.com/tunefolio/tunefolio/internal/handler"
	"github.com/tunefolio/tunefolio/internal/middleware"
	"github.com/tunefolio/tunefolio/internal/repository"
	"github.com/tunefolio/tunefolio/internal/router"
	"github.com/tunefolio/tunefolio/internal/server"
	"github.com/tunefolio/tunefolio/internal/service"
	"github.com/tunefolio/tunefolio/internal/session"
	"github.com/tunefolio/tunefolio/internal/spotify"
	"github.com/tunefolio/tunefolio/pkg/migration"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	if err := migration.AutoMigrate(cfg.Database.URL(), cfg.Server.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(db)
	favoritesRepo := repository.NewFavoritesRepository(db)

	authenticator := spotify.NewAuthenticator(cfg.Spotify)
	client := spotify.NewClient(logger)

	syncService := service.NewSyncService(authenticator, client, userRepo, favoritesRepo, logger)
	userService := service.NewUserService(userRepo)

	cookieCodec := session.NewCookieCodec(cfg.Session.Secret, cfg.Session.TTL)
	sessionStore := session.NewStore(rdb, cfg.Session.TTL)
	sessionMiddleware := middleware.NewSessionMiddleware(cookieCodec, sessionStore, authenticator, logger)

	authHandler := handler.NewAuthHandler(authenticator, syncService, sessionStore, cookieCodec, logger)
	favoritesHandler := handler.NewFavoritesHandler(syncService, logger)
	userHandler := handler.NewUserHandler(userService)

	appRouter := router.NewRouter(authHandler, favoritesHandler, userHandler, sessionMiddleware)

	srv := server.New(cfg.Server.Port, appRouter.Setup(), logger)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
