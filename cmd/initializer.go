package main

import (
	"database/sql"
	"log"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"tradeBack/internal/handlers"
	"tradeBack/internal/presence"
	"tradeBack/internal/repositories"
	"tradeBack/internal/services"
	"tradeBack/utils"
)

type application struct {
	errorLog   *log.Logger
	infoLog    *log.Logger
	db         *sql.DB
	signingKey string

	wsManager *WebSocketManager
	presence  *presence.Tracker

	userRepo *repositories.UserRepository

	chatService *services.ChatService

	userHandler         *handlers.UserHandler
	jobHandler          *handlers.JobHandler
	jobRequestHandler   *handlers.JobRequestHandler
	openJobHandler      *handlers.OpenJobHandler
	chatHandler         *handlers.ChatHandler
	notificationHandler *handlers.NotificationHandler
	favouriteHandler    *handlers.FavouriteHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, tokenManager *utils.Manager, signingKey string, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	jobRepo := repositories.JobRepository{DB: db}
	jobRequestRepo := repositories.JobRequestRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	openJobRepo := repositories.OpenJobRepository{DB: db}
	chatRepo := repositories.ChatRepository{DB: db}
	messageRepo := repositories.MessageRepository{DB: db}
	notificationRepo := repositories.NotificationRepository{DB: db}
	favouriteRepo := repositories.FavouriteRepository{DB: db}

	// Services
	notificationService := &services.NotificationService{
		NotificationRepo: &notificationRepo,
		FCMClient:        fcmClient,
		ErrorLog:         errorLog,
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		ReviewRepo:   &reviewRepo,
		TokenManager: tokenManager,
	}
	jobService := &services.JobService{
		JobRepo:    &jobRepo,
		ReviewRepo: &reviewRepo,
	}
	jobRequestService := &services.JobRequestService{
		Requests: &jobRequestRepo,
		Reviews:  &reviewRepo,
		Jobs:     &jobRepo,
		Notifier: notificationService,
	}
	openJobService := &services.OpenJobService{
		Completions: &openJobRepo,
		Jobs:        &jobRepo,
		Notifier:    notificationService,
	}
	chatService := &services.ChatService{
		Chats:    &chatRepo,
		Messages: &messageRepo,
		Notifier: notificationService,
	}
	favouriteService := &services.FavouriteService{
		FavouriteRepo: &favouriteRepo,
		UserRepo:      &userRepo,
	}

	return &application{
		errorLog:   errorLog,
		infoLog:    infoLog,
		db:         db,
		signingKey: signingKey,
		presence:   presence.NewTracker(rdb),
		userRepo:   &userRepo,

		chatService: chatService,

		userHandler:         &handlers.UserHandler{Service: userService},
		jobHandler:          &handlers.JobHandler{Service: jobService},
		jobRequestHandler:   &handlers.JobRequestHandler{Service: jobRequestService},
		openJobHandler:      &handlers.OpenJobHandler{Service: openJobService},
		chatHandler:         &handlers.ChatHandler{Service: chatService},
		notificationHandler: &handlers.NotificationHandler{Service: notificationService},
		favouriteHandler:    &handlers.FavouriteHandler{Service: favouriteService},
	}
}
