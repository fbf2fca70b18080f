package main

import (
	"go.uber.org/zap"

	"bidmarket/config"
	"bidmarket/internal/handler"
	"bidmarket/internal/httpserver"
	"bidmarket/internal/notify"
	"bidmarket/internal/repository"
	"bidmarket/internal/service"
	"bidmarket/internal/storage"
	"bidmarket/internal/upload"
	"bidmarket/pkg/db"
	"bidmarket/pkg/logger"
	"bidmarket/pkg/mq"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting bidmarket server",
		zap.String("db_host", cfg.DB.Host),
		zap.String("port", cfg.Server.Port),
	)

	if err := db.RunMigrations(cfg.DB, "migrations", log); err != nil {
		log.Fatal("Migrations failed", zap.Error(err))
	}

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	intake, err := upload.NewIntake(cfg.Upload)
	if err != nil {
		log.Fatal("Failed to init upload staging dir", zap.Error(err))
	}
	files, err := storage.NewLocal(cfg.Upload.StorageDir)
	if err != nil {
		log.Fatal("Failed to init file storage", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	bidRepo := repository.NewBidRepository(dbConn, log)
	deliverableRepo := repository.NewDeliverableRepository(dbConn, log)

	// Services
	dispatcher := notify.NewDispatcher(publisher, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, log)
	projectService := service.NewProjectService(userRepo, projectRepo, bidRepo, dispatcher, log)
	bidService := service.NewBidService(userRepo, projectRepo, bidRepo, log)
	deliverableService := service.NewDeliverableService(userRepo, projectRepo, bidRepo, deliverableRepo, files, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	bidHandler := handler.NewBidHandler(bidService, log)
	deliverableHandler := handler.NewDeliverableHandler(deliverableService, intake, log)

	router := httpserver.NewRouter(
		httpserver.RouterConfig{
			JWTSecret:      cfg.JWT.Secret,
			FrontendOrigin: cfg.Server.FrontendOrigin,
		},
		authHandler,
		projectHandler,
		bidHandler,
		deliverableHandler,
		files,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("Server start failed", zap.Error(err))
	}
}
